package main

import (
	"os"
	"os/signal"
	"syscall"

	"vritti/backend/assessment"
	"vritti/backend/metrics"
	"vritti/backend/routes"
	"vritti/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer rt.Close()

			obs := metrics.Default()
			sessions, err := utils.NewSessions(rt.cfg, rt.backend, assessment.Builtin(), rt.log, obs)
			if err != nil {
				return err
			}

			// Create Fiber app
			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			routes.SetupRoutes(app, routes.Deps{
				Cfg:      rt.cfg,
				Log:      rt.log,
				Sessions: sessions,
				Catalog:  assessment.Builtin(),
				Observer: obs,
				Gatherer: prometheus.DefaultGatherer,
			})

			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				<-sig
				rt.log.Info("Shutting down")
				_ = app.Shutdown()
			}()

			rt.log.WithField("port", rt.cfg.ServerPort).Info("Server listening")
			return app.Listen(":" + rt.cfg.ServerPort)
		},
	}
}
