package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pet-meds/internal/app"
	"pet-meds/internal/platform/config"
	"pet-meds/internal/platform/logger"
)

// @title Pet Meds API
// @version 1.0
// @description Agenda de medicación de mascotas: dosis pendientes, calendario, historial y exportaciones.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.NewFromEnv()
	if err := run(log); err != nil {
		log.Error("server error", logger.Err(err))
		os.Exit(1)
	}
}

func run(log logger.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.StartReminders(ctx); err != nil {
		// sin recordatorios la API sigue siendo útil
		log.Warn("reminders disabled", logger.Err(err))
	}

	if cfg.APIToken == "" {
		log.Warn("API_TOKEN not set: running in dev mode (X-Debug-User-ID)", nil)
	}

	return a.Serve(ctx)
}
