package http

import (
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type createAgentHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewCreateAgentHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &createAgentHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Create an agent
// @Tags Agents
// @Accept json
// @Produce json
// @Param agent body request.AgentRequest true "Agent"
// @Success 201 {object} map[string]interface{} "Agent created successfully"
// @Failure 400 {object} map[string]interface{} "name is required"
// @Router /agents [post]
func (h *createAgentHandler) Handle(c *fiber.Ctx) error {
	var req request.AgentRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	created, err := h.aggregator.CreateAgent(c.Context(), req.Agent())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"agent":   created,
		"message": "Agent created successfully",
	})
}

type listAgentsHandler struct {
	aggregator Aggregator
}

func NewListAgentsHandler(aggregator Aggregator) Handler {
	return &listAgentsHandler{aggregator: aggregator}
}

// Handle @Summary List agents
// @Tags Agents
// @Produce json
// @Success 200 {object} map[string]interface{} "Agents"
// @Router /agents [get]
func (h *listAgentsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"agents": h.aggregator.ListAgents(c.Context())})
}

type getAgentHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewGetAgentHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &getAgentHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Get an agent with its servers
// @Tags Agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} map[string]interface{} "Agent"
// @Failure 404 {object} map[string]interface{} "Agent not found"
// @Router /agents/{id} [get]
func (h *getAgentHandler) Handle(c *fiber.Ctx) error {
	detail, err := h.aggregator.GetAgent(c.Context(), c.Params("id"))
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"agent": detail})
}

type updateAgentHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewUpdateAgentHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &updateAgentHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Update an agent
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param agent body request.AgentRequest true "Agent"
// @Success 200 {object} map[string]interface{} "Agent updated successfully"
// @Failure 404 {object} map[string]interface{} "Agent not found"
// @Router /agents/{id} [put]
func (h *updateAgentHandler) Handle(c *fiber.Ctx) error {
	var req request.AgentRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	updated, err := h.aggregator.UpdateAgent(c.Context(), c.Params("id"), req.Update())
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"agent":   updated,
		"message": "Agent updated successfully",
	})
}

type deleteAgentHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewDeleteAgentHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &deleteAgentHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Delete an agent
// @Tags Agents
// @Param id path string true "Agent ID"
// @Success 200 {object} map[string]interface{} "Agent deleted successfully"
// @Failure 404 {object} map[string]interface{} "Agent not found"
// @Router /agents/{id} [delete]
func (h *deleteAgentHandler) Handle(c *fiber.Ctx) error {
	if err := h.aggregator.DeleteAgent(c.Context(), c.Params("id")); err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Agent deleted successfully"})
}

type linkServerHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewLinkServerHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &linkServerHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Link a server to an agent
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param link body request.LinkServerRequest true "Server"
// @Success 200 {object} map[string]interface{} "Server added to agent successfully"
// @Failure 400 {object} map[string]interface{} "server_id is required"
// @Failure 404 {object} map[string]interface{} "Agent or server not found"
// @Router /agents/{id}/servers [post]
func (h *linkServerHandler) Handle(c *fiber.Ctx) error {
	var req request.LinkServerRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	if err := h.aggregator.LinkServer(c.Context(), c.Params("id"), req.ServerID); err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Server added to agent successfully"})
}

type linkServerByURLHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewLinkServerByURLHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &linkServerByURLHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Link a server to an agent by url
// @Description Reuses a server registered under the url, or probes and registers it
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param link body request.ServerByURLRequest true "Server url"
// @Success 200 {object} map[string]interface{} "Server added to agent successfully"
// @Failure 400 {object} map[string]interface{} "Not a reachable tool server"
// @Router /agents/{id}/servers/by_url [post]
func (h *linkServerByURLHandler) Handle(c *fiber.Ctx) error {
	var req request.ServerByURLRequest
	if err := h.Bind(c, &req); err != nil {
		return h.HandleError(c, err)
	}
	view, err := h.aggregator.RegisterServerByURL(c.Context(), c.Params("id"), req.URL)
	if err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"server":  view,
		"message": "Server added to agent successfully",
	})
}

type listAgentServersHandler struct {
	aggregator Aggregator
}

func NewListAgentServersHandler(aggregator Aggregator) Handler {
	return &listAgentServersHandler{aggregator: aggregator}
}

// Handle @Summary Servers of an agent
// @Tags Agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} map[string]interface{} "Servers"
// @Router /agents/{id}/servers [get]
func (h *listAgentServersHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"servers": h.aggregator.AgentServers(c.Context(), c.Params("id")),
	})
}

type unlinkServerHandler struct {
	*BaseHandler
	aggregator Aggregator
}

func NewUnlinkServerHandler(logger *logrus.Logger, aggregator Aggregator) Handler {
	return &unlinkServerHandler{BaseHandler: NewBaseHandler(logger), aggregator: aggregator}
}

// Handle @Summary Unlink a server from an agent
// @Tags Agents
// @Param id path string true "Agent ID"
// @Param server_id path string true "Server ID"
// @Success 200 {object} map[string]interface{} "Server removed from agent successfully"
// @Failure 404 {object} map[string]interface{} "Server not found for this agent"
// @Router /agents/{id}/servers/{server_id} [delete]
func (h *unlinkServerHandler) Handle(c *fiber.Ctx) error {
	if err := h.aggregator.UnlinkServer(c.Context(), c.Params("id"), c.Params("server_id")); err != nil {
		return h.HandleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Server removed from agent successfully"})
}
