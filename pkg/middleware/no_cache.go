package middleware

import "github.com/gofiber/fiber/v2"

type noCacheMiddleware struct{}

// NewNoCacheMiddleware stamps every response as uncacheable.
func NewNoCacheMiddleware() Middleware {
	return noCacheMiddleware{}
}

func (noCacheMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return err
	}
}
