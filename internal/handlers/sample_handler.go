package handlers

import (
	"time"

	"github.com/fathima-sithara/sampling-service/internal/export"
	"github.com/fathima-sithara/sampling-service/internal/models"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// POST /samples
func (h *Handler) CreateSample(c *fiber.Ctx) error {
	var req models.SampleCreate
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body: "+err.Error())
	}
	s, err := h.samples.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      s.ID.Hex(),
		"message": "Sample created successfully",
		"data":    s,
	})
}

// GET /samples?limit=N
func (h *Handler) ListSamples(c *fiber.Ctx) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}
	out, err := h.samples.ListAll(c.UserContext(), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GET /samples/:userId?limit=N
func (h *Handler) ListUserSamples(c *fiber.Ctx) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}
	out, err := h.samples.ListByUser(c.UserContext(), c.Params("userId"), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GET /export?format=json&limit=N
func (h *Handler) Export(c *fiber.Ctx) error {
	format := c.Query("format", export.FormatJSON)
	if err := export.Check(format); err != nil {
		return h.fail(c, err)
	}
	limit, err := h.limit(c)
	if err != nil {
		return err
	}
	records, err := h.samples.Export(c.UserContext(), limit)
	if err != nil {
		return h.fail(c, err)
	}
	name := export.Filename(format, time.Now())
	c.Set(fiber.HeaderContentDisposition, utils.AttachmentHeader(name))
	c.Set(fiber.HeaderContentType, export.ContentType(format))
	return export.Encode(c, format, records)
}

// GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.samples.HealthCheck(c.UserContext()); err != nil {
		h.log.Warnw("health check failed", "error", err)
		return utils.JSONError(c, utils.StatusFor(err), err.Error())
	}
	return c.JSON(fiber.Map{"status": "healthy", "database": "connected"})
}
