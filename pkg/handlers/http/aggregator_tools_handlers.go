package http

import (
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type executeToolHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewExecuteToolHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &executeToolHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Execute a tool on a server
// @Tags Tools
// @Accept json
// @Produce json
// @Param execution body request.ExecuteToolRequest true "Execution"
// @Success 200 {object} aggregator.Execution
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Server or tool not found"
// @Failure 503 {object} map[string]interface{} "Tool server unreachable"
// @Router /tools/execute [post]
func (h *executeToolHandler) Handle(c *fiber.Ctx) error {
	var req request.ExecuteToolRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	result, err := h.aggregator.ExecuteTool(c.Context(), req.ToolName, req.Server, req.Arguments)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

type executeToolGetHandler struct {
	*BaseHandler
	aggregator Aggregator
}

// NewExecuteToolGetHandler serves GET /tools/:name/execute. The server
// query parameter picks the server; every other parameter becomes a
// string argument.
func NewExecuteToolGetHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &executeToolGetHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Execute a tool with query arguments
// @Tags Tools
// @Produce json
// @Param name path string true "Tool name"
// @Param server query string true "Server or slot name"
// @Success 200 {object} aggregator.Execution
// @Router /tools/{name}/execute [get]
func (h *executeToolGetHandler) Handle(c *fiber.Ctx) error {
	args := make(map[string]interface{})
	server := ""
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if key == "server" {
			server = string(v)
			return
		}
		args[key] = string(v)
	})
	result, err := h.aggregator.ExecuteTool(c.Context(), c.Params("name"), server, args)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

type createToolHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewCreateToolHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &createToolHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Create a tool
// @Description Registers a tool on the server named by server_name
// @Tags Tools
// @Accept json
// @Produce json
// @Param tool body request.CreateToolRequest true "Tool"
// @Success 201 {object} map[string]interface{} "Tool created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Server not found"
// @Router /tools [post]
func (h *createToolHandler) Handle(c *fiber.Ctx) error {
	var req request.CreateToolRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	created, err := h.aggregator.CreateTool(c.Context(), req.ServerName, req.Tool())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"tool":    created,
		"message": "Tool created successfully",
	})
}

type aggregatorUpdateToolHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewAggregatorUpdateToolHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &aggregatorUpdateToolHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Update a tool
// @Tags Tools
// @Accept json
// @Produce json
// @Param id path string true "Tool ID"
// @Param tool body request.ToolRequest true "Tool"
// @Success 200 {object} map[string]interface{} "Tool updated successfully"
// @Failure 404 {object} map[string]interface{} "Tool not found"
// @Router /tools/{id} [put]
func (h *aggregatorUpdateToolHandler) Handle(c *fiber.Ctx) error {
	var req request.ToolRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	updated, err := h.aggregator.UpdateTool(c.Context(), c.Params("id"), req.Update())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"tool":    updated,
		"message": "Tool updated successfully",
	})
}

type aggregatorDeleteToolHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewAggregatorDeleteToolHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &aggregatorDeleteToolHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Delete a tool
// @Tags Tools
// @Param id path string true "Tool ID"
// @Success 200 {object} map[string]interface{} "Tool deleted successfully"
// @Failure 404 {object} map[string]interface{} "Tool not found"
// @Router /tools/{id} [delete]
func (h *aggregatorDeleteToolHandler) Handle(c *fiber.Ctx) error {
	if err := h.aggregator.DeleteTool(c.Context(), c.Params("id")); err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Tool deleted successfully"})
}
