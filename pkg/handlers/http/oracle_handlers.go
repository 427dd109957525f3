package http

import (
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type oracleStatusHandler struct {
	console OracleConsole
}

func NewOracleStatusHandler(console OracleConsole) Handler {
	return &oracleStatusHandler{console: console}
}

// Handle @Summary Oracle status
// @Description Provider, model, masked key and circuit breaker state
// @Tags Oracle
// @Produce json
// @Success 200 {object} oracle.Status
// @Router /api/oracle/status [get]
func (h *oracleStatusHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.console.Status())
}

type oracleChatHandler struct {
	*BaseHandler
	console OracleConsole
}

func NewOracleChatHandler(logger *logrus.Logger, console OracleConsole) Handler {
	return &oracleChatHandler{BaseHandler: NewBaseHandler(logger), console: console}
}

// Handle @Summary Chat with the oracle model
// @Tags Oracle
// @Accept json
// @Produce json
// @Param chat body request.ChatRequest true "Message"
// @Success 200 {object} oracle.ChatReply
// @Failure 400 {object} map[string]interface{} "message is required"
// @Failure 503 {object} map[string]interface{} "Oracle unavailable"
// @Router /api/oracle/chat [post]
func (h *oracleChatHandler) Handle(c *fiber.Ctx) error {
	var req request.ChatRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	reply, err := h.console.Chat(c.Context(), req.Message)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(reply)
}

type oracleModelsHandler struct {
	*BaseHandler
	console OracleConsole
}

func NewOracleModelsHandler(logger *logrus.Logger, console OracleConsole) Handler {
	return &oracleModelsHandler{BaseHandler: NewBaseHandler(logger), console: console}
}

// Handle @Summary Models offered by the oracle provider
// @Tags Oracle
// @Produce json
// @Success 200 {object} map[string]interface{} "Models"
// @Router /api/oracle/models [get]
func (h *oracleModelsHandler) Handle(c *fiber.Ctx) error {
	models, err := h.console.Models(c.Context())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"models": models})
}
