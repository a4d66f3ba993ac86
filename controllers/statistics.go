package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleStatistics returns the stored summary record; ?recompute=true forces
// a full rebuild from the collection first.
func (h *Handler) HandleStatistics(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), storeTimeout*time.Second)
	defer cancel()

	summary, err := h.svc.Statistics(ctx, parseBool(c.Query("recompute")))
	if err != nil {
		return h.serverErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":         true,
		"statistics": summary,
	})
}
