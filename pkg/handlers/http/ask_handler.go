package http

import (
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type askHandler struct {
	*BaseHandler
	aggregator Aggregator
	fromQuery  bool
}

// NewAskHandler serves POST /ask with a JSON body.
func NewAskHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &askHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// NewAskGetHandler serves GET /ask?question=&agent_id=.
func NewAskGetHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &askHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator, fromQuery: true}
}

// Handle @Summary Ask a question
// @Description Picks a tool among the agent's servers, runs it and summarises the result
// @Tags Ask
// @Accept json
// @Produce json
// @Param question body request.AskRequest true "Question"
// @Success 200 {object} aggregator.Answer
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "No servers found for this agent"
// @Failure 503 {object} map[string]interface{} "Tool server or oracle unavailable"
// @Router /ask [post]
func (h *askHandler) Handle(c *fiber.Ctx) error {
	var req request.AskRequest
	if h.fromQuery {
		req.Question = c.Query("question")
		req.AgentID = c.Query("agent_id")
	}
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}

	answer, err := h.aggregator.Ask(c.Context(), req.Question, req.AgentID)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(answer)
}
