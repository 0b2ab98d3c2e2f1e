package routers

import (
	"io"
	"runtime"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/factory"
	"github.com/screenrec/screenrec-server/version"
)

// router holds the dependencies for setting up routes.
type router struct {
	app  *fiber.App
	ctrl *factory.ApplicationControllers
}

func New(appConfig *config.AppConfig, ctrl *factory.ApplicationControllers) *fiber.App {
	cnf := fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		AppName:     "screenrec-server version: " + version.Version + " runtime: " + runtime.Version(),
		BodyLimit:   int(appConfig.UploadFileSettings.MaxSize) * 1024 * 1024,
	}

	if appConfig.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appConfig.Client.ProxyHeader
	}

	app := fiber.New(cnf)

	app.Use(logger.New(logger.Config{
		Done: func(c *fiber.Ctx, logString []byte) {
			appConfig.Logger.Debugln(string(logString))
		},
		Format: "${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}",
		Output: io.Discard,
	}))

	if appConfig.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("screenrec")
		prometheus.RegisterAt(app, appConfig.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}

	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,OPTIONS",
	}))

	// blobs stay directly reachable under the public prefix, bypassing
	// the API, exactly like the upload responses advertise them
	app.Static(appConfig.UploadFileSettings.PublicPrefix, appConfig.UploadFileSettings.Path)

	r := &router{
		app:  app,
		ctrl: ctrl,
	}
	r.registerBaseRoutes()
	r.registerAPIRoutes()

	// This MUST be the last middleware to be registered.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	})

	return app
}

func (r *router) registerBaseRoutes() {
	r.app.Get("/healthCheck", r.ctrl.HealthCheckController.HandleHealthCheck)
}

func (r *router) registerAPIRoutes() {
	api := r.app.Group("/api")

	recordings := api.Group("/recordings")
	recordings.Post("/", r.ctrl.RecordingController.HandleUploadRecording)
	recordings.Get("/", r.ctrl.RecordingController.HandleFetchRecordings)
	recordings.Get("/:id", r.ctrl.RecordingController.HandleDownloadRecording)
}
