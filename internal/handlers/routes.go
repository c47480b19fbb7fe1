package handlers

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app fiber.Router, h *Handler) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	app.Post("/samples", h.CreateSample)
	app.Get("/samples", h.ListSamples)
	app.Get("/samples/:userId", h.ListUserSamples)
	app.Get("/export", h.Export)

	app.Post("/upload-video", h.UploadVideo)
	app.Get("/download-video/:userId/:filename", h.DownloadVideo)
	app.Get("/videos", h.ListVideos)
	app.Get("/dashboard", h.Dashboard)
}
