package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthpulse/models"
	"healthpulse/survey"
)

// HandleSubmitResponse accepts one survey response, classifies and stores it.
func (h *Handler) HandleSubmitResponse(c *fiber.Ctx) error {
	var p models.SubmitPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}

	ctx, cancel := context.WithTimeout(c.Context(), storeTimeout*time.Second)
	defer cancel()

	resp, err := h.svc.Submit(ctx, p)
	if errors.Is(err, survey.ErrInvalid) {
		return badReq(c, err.Error())
	}
	if err != nil {
		return h.serverErr(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.SubmitResp{
		OK:             true,
		ID:             resp.ID,
		Classification: resp.Classification,
		Score:          resp.Score,
		RiskFactors:    resp.RiskFactors,
	})
}

// HandleListResponses pages the stored collection newest-first, with
// optional classification and age-group filters.
func (h *Handler) HandleListResponses(c *fiber.Ctx) error {
	q := survey.ListQuery{Limit: 20}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badReq(c, "invalid limit")
		}
		q.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return badReq(c, "invalid offset")
		}
		q.Offset = n
	}
	q.Classification = c.Query("classification")
	q.AgeGroup = c.Query("age_group")

	ctx, cancel := context.WithTimeout(c.Context(), storeTimeout*time.Second)
	defer cancel()

	res, err := h.svc.List(ctx, q)
	if err != nil {
		return h.serverErr(c, err)
	}
	if res.Items == nil {
		res.Items = []models.Response{}
	}
	return c.Status(fiber.StatusOK).JSON(models.ListResp{
		OK:     true,
		Items:  res.Items,
		Total:  res.Total,
		Limit:  res.Limit,
		Offset: res.Offset,
	})
}
