package routes

import (
	"github.com/gofiber/fiber/v2"

	"healthpulse/controllers"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App, h *controllers.Handler) {
	api := app.Group("/api")

	api.Post("/responses", h.HandleSubmitResponse)
	api.Get("/responses", h.HandleListResponses)

	api.Get("/statistics", h.HandleStatistics)
	api.Get("/export", h.HandleExport)

	api.Get("/settings", h.HandleGetSettings)
	api.Put("/settings", h.HandleUpdateSettings)

	// Optional: quick echo to verify requests reach the API
	api.Get("/debug/echo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"method": c.Method(),
			"ct":     c.Get("Content-Type"),
			"len":    len(c.Body()),
		})
	})
}
