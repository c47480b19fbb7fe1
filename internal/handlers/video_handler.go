package handlers

import (
	"bytes"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/dashboard"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// POST /upload-video (multipart/form-data 'file', 'userId')
func (h *Handler) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "file missing")
	}
	userID := c.FormValue("userId")
	if userID == "" {
		userID = c.FormValue("user_id")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "cannot open file")
	}
	defer f.Close()

	v, err := h.videos.Upload(c.UserContext(), userID, fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"filename":  v.Filename,
		"fileId":    v.ID,
		"userId":    v.UserID,
		"sizeBytes": v.SizeBytes,
		"message":   "Video uploaded successfully",
	})
}

// GET /download-video/:userId/:filename
func (h *Handler) DownloadVideo(c *fiber.Ctx) error {
	v, rc, err := h.videos.Download(c.UserContext(), c.Params("userId"), c.Params("filename"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, utils.AttachmentHeader(v.Filename))
	c.Set(fiber.HeaderContentType, v.ContentType)
	// fasthttp closes rc once the body has been written
	if v.SizeBytes > 0 {
		return c.SendStream(rc, int(v.SizeBytes))
	}
	return c.SendStream(rc)
}

// GET /videos
func (h *Handler) ListVideos(c *fiber.Ctx) error {
	out, err := h.videos.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GET /dashboard
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	samples, err := h.samples.ListAll(ctx, h.info.DefaultLimit)
	if err != nil {
		return h.fail(c, err)
	}
	videos, err := h.videos.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	err = dashboard.Render(&buf, dashboard.Page{
		Title:       h.info.Name,
		GeneratedAt: time.Now(),
		Samples:     samples,
		Videos:      videos,
		ExportLimit: h.info.DefaultLimit,
	})
	if err != nil {
		return h.fail(c, err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
