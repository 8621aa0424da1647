package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cityaqi/internal/config"
	httpapi "cityaqi/internal/httpapi"
	aqi "cityaqi/internal/modules/aqi"
	"cityaqi/internal/modules/aqi/repository"
	aqiviews "cityaqi/internal/modules/aqi/views"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dataPath", cfg.DataPath,
		"dataWatch", cfg.DataWatch,
		"chartWidth", cfg.ChartWidth,
		"chartHeight", cfg.ChartHeight,
	)

	repo := repository.NewFileRepository(cfg.DataPath)
	if err := repo.Load(); err != nil {
		return err
	}
	if err := aqiviews.LoadTemplates(); err != nil {
		return err
	}

	mux := httpapi.NewMux(repo)
	aqi.RegisterFeature(mux, repo, cfg)

	stopWatch := func() {}
	if cfg.DataWatch {
		watcher, err := repository.NewFileWatcher(repo.Path())
		if err != nil {
			slog.Warn("file watcher unavailable (continuing without reload)", "error", err)
		} else {
			stopWatch = func() {
				if err := watcher.Close(); err != nil {
					slog.Error("file watcher close", "error", err)
				}
			}
			go watchDataFile(ctx, watcher, repo)
		}
	}
	defer stopWatch()

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("file watcher stopping")
	stopWatch()
	stopWatch = func() {}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

func watchDataFile(ctx context.Context, watcher *repository.FileWatcher, repo *repository.FileRepository) {
	err := watcher.Watch(ctx, func(path string) {
		slog.Info("data file changed, reloading on next request", "path", path)
		repo.Invalidate()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("file watcher stopped", "error", err)
	}
}
