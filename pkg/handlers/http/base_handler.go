package http

import (
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const ErrInvalidJsonPayload = "invalid JSON payload"

type validatable interface {
	Validate() error
}

type BaseHandler struct {
	logger *logrus.Logger
}

func NewBaseHandler(logger *logrus.Logger) *BaseHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseHandler{logger: logger}
}

// HandleError writes err as {"error": msg} with the status its kind maps
// to. Server-side failures are logged with their full cause.
func (h *BaseHandler) HandleError(c *fiber.Ctx, err error) error {
	status := domain.HTTPStatus(err)
	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": status,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	return c.Status(status).JSON(fiber.Map{"error": domain.PublicMessage(err)})
}

// Bind decodes the JSON body into req and runs its Validate method when it
// has one. Both failures are bad requests.
func (h *BaseHandler) Bind(c *fiber.Ctx, req interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			h.logger.WithError(err).Debug("failed to bind request")
			return domain.NewBadRequestError(ErrInvalidJsonPayload)
		}
	}
	if v, ok := req.(validatable); ok {
		if err := v.Validate(); err != nil {
			return domain.NewBadRequestError(err.Error())
		}
	}
	return nil
}
