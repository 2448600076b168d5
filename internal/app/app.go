// Package app arma el grafo de dependencias a partir de la config.
// Lo usan tanto el servidor HTTP como la CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pet-meds/internal/adapters/auth/static"
	"pet-meds/internal/adapters/blob/fs"
	"pet-meds/internal/adapters/blob/s3"
	"pet-meds/internal/adapters/notify/logsink"
	"pet-meds/internal/adapters/notify/webhook"
	"pet-meds/internal/adapters/storage"
	"pet-meds/internal/domain/export"
	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/reminders"
	"pet-meds/internal/platform/config"
	"pet-meds/internal/platform/logger"
	"pet-meds/internal/platform/metrics"
	"pet-meds/internal/ports/auth"
	"pet-meds/internal/ports/kv"
	"pet-meds/internal/router"
	"pet-meds/internal/store"
)

type App struct {
	Config  config.Config
	Log     logger.Logger
	Metrics *metrics.Metrics

	Service *petmeds.Service
	Export  *export.Service

	// Reminders queda nil hasta StartReminders.
	Reminders *reminders.Scheduler

	kv kv.Store
}

// New abre el store y construye los servicios. Quien lo llama debe hacer Close.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open store (%s): %w", cfg.StoreEngine, err)
	}

	m := metrics.New()
	svc := petmeds.NewService(store.NewRecords(db, cfg.KeyPrefix), petmeds.Options{
		Logger:   log,
		Location: cfg.Location,
		Observer: m,
	})

	sink, err := newSink(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Metrics: m,
		Service: svc,
		Export:  export.NewService(svc, sink, export.Options{Logger: log, Location: cfg.Location}),
		kv:      db,
	}, nil
}

func newSink(ctx context.Context, cfg config.Config) (export.Sink, error) {
	if cfg.ExportS3Bucket != "" {
		sink, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.ExportS3Bucket,
			Region:    cfg.ExportS3Region,
			Endpoint:  cfg.ExportS3Endpoint,
			PathStyle: cfg.ExportS3PathStyle,
			Prefix:    cfg.ExportS3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("export s3 sink: %w", err)
		}
		return sink, nil
	}
	sink, err := fs.New(cfg.ExportDir)
	if err != nil {
		return nil, fmt.Errorf("export dir sink: %w", err)
	}
	return sink, nil
}

// StartReminders crea el scheduler, lo suscribe a los cambios y hace la
// primera planificación con lo que ya está guardado.
func (a *App) StartReminders(ctx context.Context) error {
	var n reminders.Notifier = logsink.New(a.Log)
	if a.Config.ReminderWebhookURL != "" {
		wh, err := webhook.New(webhook.Config{
			URL:   a.Config.ReminderWebhookURL,
			Token: a.Config.ReminderWebhookToken,
		})
		if err != nil {
			return err
		}
		n = wh
	}

	sched := reminders.NewScheduler(n, reminders.Options{
		Logger:   a.Log,
		Location: a.Config.Location,
		Lead:     a.Config.ReminderLead,
		Observer: a.Metrics,
	})
	a.Service.Subscribe(sched)
	a.Reminders = sched

	snap, err := a.Service.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial reminders: %w", err)
	}
	sched.Reschedule(snap.Medications, snap.Pets)
	return nil
}

// Verifier devuelve nil (modo dev) si no hay API_TOKEN.
func (a *App) Verifier() auth.AuthVerifier {
	if v := static.New(a.Config.APIToken, ""); v != nil {
		return v
	}
	return nil
}

func (a *App) Handler() http.Handler {
	return router.NewRouter(router.Options{
		Service:      a.Service,
		Export:       a.Export,
		AuthVerifier: a.Verifier(),
		Logger:       a.Log,
		Metrics:      a.Metrics,
	})
}

// Serve levanta el servidor en :PORT hasta que ctx se cancele y después
// hace shutdown ordenado.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("starting server", map[string]any{"addr": srv.Addr, "store": a.Config.StoreEngine})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (a *App) Close() error {
	var errs []error
	if a.Reminders != nil {
		a.Reminders.Stop()
	}
	if a.kv != nil {
		errs = append(errs, a.kv.Close())
	}
	return errors.Join(errs...)
}
