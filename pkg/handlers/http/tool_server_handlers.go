package http

import (
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type healthHandler struct {
	service ToolServer
}

func NewHealthHandler(service ToolServer) Handler {
	return &healthHandler{service: service}
}

// Handle @Summary Tool server health
// @Description Reports liveness and registry connectivity. Never fails.
// @Tags ToolServer
// @Produce json
// @Success 200 {object} toolserver.Health
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.Health(c.Context()))
}

type infoHandler struct {
	*BaseHandler
	service ToolServer
}

func NewInfoHandler(logger *logrus.Logger, service ToolServer) Handler {
	return &infoHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Handle @Summary Tool server info
// @Description Returns the bound registry server and its tools
// @Tags ToolServer
// @Produce json
// @Success 200 {object} toolserver.Info
// @Failure 404 {object} map[string]interface{} "Server not found"
// @Router /info [get]
func (h *infoHandler) Handle(c *fiber.Ctx) error {
	info, err := h.service.Info(c.Context())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(info)
}

type listToolsHandler struct {
	service ToolServer
}

func NewListToolsHandler(service ToolServer) Handler {
	return &listToolsHandler{service: service}
}

// Handle @Summary List tools
// @Description Returns the tool catalog with input schemas
// @Tags ToolServer
// @Produce json
// @Success 200 {object} toolserver.Catalog
// @Router /tools [get]
func (h *listToolsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.ListTools(c.Context()))
}

type checkToolsHandler struct {
	service ToolServer
}

func NewCheckToolsHandler(service ToolServer) Handler {
	return &checkToolsHandler{service: service}
}

func (h *checkToolsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.service.CheckTools(c.Context()))
}

type registerToolHandler struct {
	*BaseHandler
	service ToolServer
}

func NewRegisterToolHandler(logger *logrus.Logger, service ToolServer) Handler {
	return &registerToolHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Handle @Summary Register a tool
// @Description Stores a tool under this server with a generated id
// @Tags ToolServer
// @Accept json
// @Produce json
// @Param tool body request.ToolRequest true "Tool"
// @Success 201 {object} map[string]interface{} "Registered tool"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /tools [post]
func (h *registerToolHandler) Handle(c *fiber.Ctx) error {
	var req request.ToolRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	created, err := h.service.RegisterTool(c.Context(), req.Tool())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tool": created})
}

type updateToolHandler struct {
	*BaseHandler
	service ToolServer
}

func NewUpdateToolHandler(logger *logrus.Logger, service ToolServer) Handler {
	return &updateToolHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Handle @Summary Replace a tool
// @Tags ToolServer
// @Accept json
// @Produce json
// @Param id path string true "Tool ID"
// @Param tool body request.ToolRequest true "Tool"
// @Success 200 {object} tool.Tool
// @Failure 404 {object} map[string]interface{} "Tool not found"
// @Router /tools/{id} [put]
func (h *updateToolHandler) Handle(c *fiber.Ctx) error {
	var req request.ToolRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	updated, err := h.service.UpdateTool(c.Context(), c.Params("id"), req.Update())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

type deleteToolHandler struct {
	*BaseHandler
	service ToolServer
}

func NewDeleteToolHandler(logger *logrus.Logger, service ToolServer) Handler {
	return &deleteToolHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Handle @Summary Delete a tool
// @Tags ToolServer
// @Param id path string true "Tool ID"
// @Success 200 {object} map[string]interface{} "Tool deleted successfully"
// @Failure 404 {object} map[string]interface{} "Tool not found"
// @Router /tools/{id} [delete]
func (h *deleteToolHandler) Handle(c *fiber.Ctx) error {
	if err := h.service.DeleteTool(c.Context(), c.Params("id")); err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Tool deleted successfully"})
}

type callToolHandler struct {
	*BaseHandler
	service ToolServer
}

func NewCallToolHandler(logger *logrus.Logger, service ToolServer) Handler {
	return &callToolHandler{BaseHandler: NewBaseHandler(logger), service: service}
}

// Handle @Summary Execute a tool
// @Description Runs a tool; tool failures come back as isError results
// @Tags ToolServer
// @Accept json
// @Produce json
// @Param call body request.CallToolRequest true "Call"
// @Success 200 {object} toolserver.ExecutionResult
// @Failure 400 {object} map[string]interface{} "Tool name is required"
// @Failure 404 {object} map[string]interface{} "Tool not found"
// @Router /tools/call [post]
func (h *callToolHandler) Handle(c *fiber.Ctx) error {
	var req request.CallToolRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return h.HandleError(c, domain.NewBadRequestError("Tool name is required"))
	}
	result, err := h.service.Execute(c.Context(), req.Name, req.Arguments)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
