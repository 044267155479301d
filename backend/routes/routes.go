package routes

import (
	"vritti/backend/assessment"
	"vritti/backend/config"
	"vritti/backend/controllers"
	"vritti/backend/gate"
	"vritti/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps carries what the handlers share.
type Deps struct {
	Cfg      *config.Config
	Log      logrus.FieldLogger
	Sessions *gate.Registry
	Catalog  *assessment.Catalog
	Observer gate.Observer
	Gatherer prometheus.Gatherer
}

func SetupRoutes(app *fiber.App, deps Deps) {
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(deps.Log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Device routes
	deviceController := controllers.NewDeviceController(deps.Cfg, deps.Log)
	api.Post("/device", deviceController.IssueDevice)

	// Instrument routes need no device
	instrumentsController := controllers.NewInstrumentsController(deps.Catalog)
	instruments := api.Group("/instruments")
	instruments.Get("/", instrumentsController.ListInstruments)
	instruments.Get("/:id", instrumentsController.GetInstrument)
	instruments.Post("/:id/score", instrumentsController.ScoreInstrument)

	deviceMiddleware := middleware.DeviceMiddleware(deps.Cfg)

	// Gate routes
	gateController := controllers.NewGateController(deps.Sessions, deps.Cfg, deps.Log)
	api.Get("/gate", deviceMiddleware, gateController.GetGate)
	api.Post("/gate/name", deviceMiddleware, gateController.SubmitName)

	assessmentGroup := api.Group("/assessment", deviceMiddleware)
	assessmentGroup.Post("/answer", gateController.Answer)
	assessmentGroup.Post("/retake", gateController.Retake)

	// Profile routes
	profileController := controllers.NewProfileController(deps.Sessions, deps.Log, deps.Observer)
	profileGroup := api.Group("/profile", deviceMiddleware)
	profileGroup.Get("/", profileController.GetProfile)
	profileGroup.Put("/mood", profileController.UpdateMood)
	profileGroup.Post("/activity", profileController.RecordActivity)
	profileGroup.Put("/sleep", profileController.UpdateSleep)
	profileGroup.Post("/journal", profileController.SaveJournal)
}
