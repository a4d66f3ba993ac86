package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"healthpulse/survey"
)

// storeTimeout bounds every store-touching request.
const storeTimeout = 8 // seconds

// Handler carries the service handle into the fiber handlers; nothing here
// reaches for ambient global state.
type Handler struct {
	svc *survey.Service
	log *zap.Logger
}

func New(svc *survey.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type ErrorResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func badReq(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResp{OK: false, Error: msg})
}

func (h *Handler) serverErr(c *fiber.Ctx, err error) error {
	h.log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResp{OK: false, Error: err.Error()})
}

// parseBool understands common truthy strings.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
