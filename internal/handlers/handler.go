package handlers

import (
	"context"
	"io"
	"strconv"

	"github.com/fathima-sithara/sampling-service/internal/models"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SampleService interface {
	Create(ctx context.Context, in models.SampleCreate) (*models.Sample, error)
	ListAll(ctx context.Context, limit int64) ([]*models.Sample, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]*models.Sample, error)
	Export(ctx context.Context, limit int64) ([]models.ExportRecord, error)
	HealthCheck(ctx context.Context) error
}

type VideoService interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*models.Video, error)
	Download(ctx context.Context, userID, filename string) (*models.Video, io.ReadCloser, error)
	List(ctx context.Context) ([]*models.Video, error)
}

type Info struct {
	Name         string
	Version      string
	DefaultLimit int64
}

type Handler struct {
	samples SampleService
	videos  VideoService
	info    Info
	log     *zap.SugaredLogger
}

func NewHandler(samples SampleService, videos VideoService, info Info, log *zap.SugaredLogger) *Handler {
	if info.DefaultLimit < 1 {
		info.DefaultLimit = 100
	}
	return &Handler{samples: samples, videos: videos, info: info, log: log}
}

// fail writes err as a JSON error, logging anything that is not the
// client's fault.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := utils.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return utils.JSONError(c, status, err.Error())
}

// limit reads ?limit=N, falling back to the configured default.
func (h *Handler) limit(c *fiber.Ctx) (int64, error) {
	raw := c.Query("limit")
	if raw == "" {
		return h.info.DefaultLimit, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "limit must be an integer")
	}
	return n, nil
}

// GET /
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.info.Name,
		"version": h.info.Version,
		"endpoints": fiber.Map{
			"POST /samples":                            "Create new sample",
			"GET /samples":                             "Get all samples",
			"GET /samples/{user_id}":                   "Get samples by user",
			"GET /export":                              "Download all samples (format=json|yaml)",
			"POST /upload-video":                       "Upload a video (multipart: file, userId)",
			"GET /download-video/{user_id}/{filename}": "Download a video",
			"GET /videos":                              "List uploaded videos",
			"GET /dashboard":                           "HTML dashboard",
			"GET /health":                              "Health check",
		},
	})
}
