package server

import (
	"github.com/fathima-sithara/sampling-service/internal/config"
	"github.com/fathima-sithara/sampling-service/internal/handlers"
	"github.com/fathima-sithara/sampling-service/internal/metrics"
	"github.com/fathima-sithara/sampling-service/internal/middleware"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Deps struct {
	Config  *config.Config
	Samples handlers.SampleService
	Videos  handlers.VideoService
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter // nil disables rate limiting
	Log     *zap.SugaredLogger
}

// New builds the Fiber app with middleware and every route registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               d.Config.App.Name,
		ReadTimeout:           d.Config.ReadTimeout,
		WriteTimeout:          d.Config.WriteTimeout,
		BodyLimit:             d.Config.BodyLimit,
		StreamRequestBody:     true,
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          utils.ErrorHandler,
	})

	app.Use(recover.New())
	// the Expo client calls from arbitrary origins
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(d.Metrics.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	if d.Limiter != nil {
		app.Use(d.Limiter.MiddlewareByKey(middleware.ByIP))
	}

	h := handlers.NewHandler(d.Samples, d.Videos, handlers.Info{
		Name:         d.Config.App.Name,
		Version:      d.Config.App.Version,
		DefaultLimit: d.Config.App.DefaultLimit,
	}, d.Log)
	handlers.RegisterRoutes(app, h)
	return app
}
