package http

import (
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listServersHandler struct {
	aggregator Aggregator
}

func NewListServersHandler(aggregator Aggregator) Handler {
	return &listServersHandler{aggregator: aggregator}
}

// Handle @Summary List servers
// @Description Every registry server, annotated with its slot and url
// @Tags Servers
// @Produce json
// @Success 200 {object} aggregator.ServerList
// @Router /servers [get]
func (h *listServersHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.aggregator.ListServers(c.Context()))
}

type serverStatusHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewServerStatusHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &serverStatusHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Server status
// @Description Probes the tool server health endpoint and lists its tools
// @Tags Servers
// @Produce json
// @Param name path string true "Server or slot name"
// @Success 200 {object} aggregator.ServerStatus
// @Failure 404 {object} map[string]interface{} "Server not found"
// @Router /servers/{name}/status [get]
func (h *serverStatusHandler) Handle(c *fiber.Ctx) error {
	status, err := h.aggregator.ServerStatus(c.Context(), c.Params("name"))
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(status)
}

type serverToolsHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewServerToolsHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &serverToolsHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Server tools
// @Tags Servers
// @Produce json
// @Param name path string true "Server or slot name"
// @Success 200 {object} aggregator.ServerTools
// @Failure 404 {object} map[string]interface{} "Server not found"
// @Router /servers/{name}/tools [get]
func (h *serverToolsHandler) Handle(c *fiber.Ctx) error {
	tools, err := h.aggregator.ServerTools(c.Context(), c.Params("name"))
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tools)
}

type selectServerHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewSelectServerHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &selectServerHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Select a server
// @Description Resolves a server by name, or by the port in its url
// @Tags Servers
// @Accept json
// @Produce json
// @Param selection body request.SelectServerRequest true "Selection"
// @Success 200 {object} aggregator.Selected
// @Failure 400 {object} map[string]interface{} "Cannot determine server name from URL"
// @Failure 404 {object} map[string]interface{} "Server not found"
// @Router /select-server [post]
func (h *selectServerHandler) Handle(c *fiber.Ctx) error {
	var req request.SelectServerRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	selected, err := h.aggregator.SelectServer(c.Context(), req.ServerName, req.ServerURL)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(selected)
}
