package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthpulse/models"
	"healthpulse/survey"
)

// HandleGetSettings returns the stored settings record.
func (h *Handler) HandleGetSettings(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), storeTimeout*time.Second)
	defer cancel()

	settings, err := h.svc.Settings(ctx)
	if err != nil {
		return h.serverErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"settings": settings,
	})
}

// HandleUpdateSettings merges the provided fields into the stored record.
func (h *Handler) HandleUpdateSettings(c *fiber.Ctx) error {
	var p models.SettingsPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}

	ctx, cancel := context.WithTimeout(c.Context(), storeTimeout*time.Second)
	defer cancel()

	settings, err := h.svc.UpdateSettings(ctx, p)
	if errors.Is(err, survey.ErrInvalid) {
		return badReq(c, err.Error())
	}
	if err != nil {
		return h.serverErr(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"settings": settings,
	})
}
