package http

import (
	"fmt"

	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/handlers/http/response"
	"github.com/NeuralTrust/toolhub/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type indexHandler struct {
	slots server.SlotTable
	host  string
}

func NewIndexHandler(slots server.SlotTable, host string) Handler {
	if host == "" {
		host = "localhost"
	}
	return &indexHandler{slots: slots, host: host}
}

// Handle @Summary Service index
// @Description Describes the aggregator, its tool server slots and endpoints
// @Tags Aggregator
// @Produce json
// @Success 200 {object} response.ServiceIndex
// @Router /api [get]
func (h *indexHandler) Handle(c *fiber.Ctx) error {
	servers := make(map[string]response.SlotOutput, len(h.slots.Rules))
	for _, rule := range h.slots.Rules {
		servers[rule.Slot] = response.SlotOutput{
			Name: rule.DisplayName,
			Port: rule.Port,
			URL:  fmt.Sprintf("http://%s:%d", h.host, rule.Port),
		}
	}
	return c.Status(fiber.StatusOK).JSON(response.ServiceIndex{
		Name:        "toolhub aggregator",
		Description: "Unified API over the registered tool servers",
		Version:     version.Version,
		Servers:     servers,
		Endpoints:   response.AggregatorEndpoints,
	})
}
