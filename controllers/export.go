package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthpulse/export"
	"healthpulse/survey"
)

// HandleExport streams the stored data as a date-stamped download. The
// format query parameter defaults to the stored export preference.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), storeTimeout*time.Second)
	defer cancel()

	f, err := h.svc.Export(ctx, c.Query("format"))
	if errors.Is(err, export.ErrNoData) || errors.Is(err, survey.ErrInvalid) {
		return badReq(c, err.Error())
	}
	if err != nil {
		return h.serverErr(c, err)
	}

	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Send(f.Data)
}
