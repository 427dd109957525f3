package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type sseHandler struct {
	logger   *logrus.Logger
	slot     string
	interval time.Duration
	shutdown <-chan struct{}
}

// NewSSEHandler streams a connected event followed by heartbeat comments
// every interval. Streams end when the client goes away or shutdown closes.
func NewSSEHandler(logger *logrus.Logger, slot string, interval time.Duration, shutdown <-chan struct{}) Handler {
	if interval <= 0 {
		interval = time.Second
	}
	return &sseHandler{logger: logger, slot: slot, interval: interval, shutdown: shutdown}
}

// Handle @Summary Event stream
// @Description Server-sent events: one connected event, then heartbeats
// @Tags ToolServer
// @Produce text/event-stream
// @Router /sse [get]
func (h *sseHandler) Handle(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := h.stream(w); err != nil {
			h.logger.WithError(err).WithField("slot", h.slot).Debug("sse client disconnected")
		}
	}))
	return nil
}

func (h *sseHandler) stream(w *bufio.Writer) error {
	connected, err := json.Marshal(map[string]string{"type": "connected", "server": h.slot})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", connected); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.shutdown:
			return nil
		case <-ticker.C:
			if _, err := w.WriteString(": heartbeat\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}
