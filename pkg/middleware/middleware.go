package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport is the ordered middleware chain of one HTTP role.
type Transport struct {
	Middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	return &Transport{Middlewares: middlewares}
}

// GetMiddlewares returns the chain in the shape fiber's Use expects.
func (t *Transport) GetMiddlewares() []interface{} {
	if t == nil {
		return nil
	}
	handlers := make([]interface{}, 0, len(t.Middlewares))
	for _, m := range t.Middlewares {
		handlers = append(handlers, m.Middleware())
	}
	return handlers
}
