package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"courtbook/internal/audit"
	"courtbook/internal/console"
	"courtbook/internal/db"
)

func cmdConsole(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "console")
	start := fs.String("route", "", "page to open first, e.g. /courts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cfg.Monitoring.PrometheusEnabled {
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go startMonitoringServer(srvCtx, a.cfg.Monitoring.PrometheusPort, a.db, a.rdb, a.logger)
	}

	c := console.New(a.client, a.sess, a.bus, a.in, a.out, a.logger, console.Options{
		LoginRedirectDelay: a.cfg.LoginRedirectDelay(),
		PageSize:           a.cfg.Console.PageSize,
		Location:           a.loc,
		Rules:              a.rules,
	})
	a.logger.Debug().Str("api", a.client.BaseURL()).Msg("console started")
	if *start != "" {
		c.Navigate(ctx, *start)
	}
	return c.Run(ctx)
}

func cmdExport(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "export")
	out := fs.String("out", audit.GenerateFilename(time.Now()), "output .xlsx path")
	retention := fs.Int("retention-days", 0, "after exporting, drop journal entries older than this many days (0 keeps all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireLogin(ctx, a); err != nil {
		return err
	}

	exp := audit.NewExporter(a.client, a.db, a.logger)
	exp.Retention = time.Duration(*retention) * 24 * time.Hour
	if err := exp.ExportFile(ctx, *out); err != nil {
		return err
	}
	a.say("Exported to %s", *out)
	return nil
}

func cmdBackup(ctx context.Context, a *app, args []string) error {
	fs := newFlags(a, "backup")
	dir := fs.String("dir", filepath.Join(filepath.Dir(a.cfg.Database.Path), "backups"), "backup directory")
	retention := fs.Int("retention-days", 30, "remove backups older than this many days (0 keeps all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.db.Backup(ctx, *dir)
	if err != nil {
		return err
	}
	a.say("Backup written to %s", path)

	removed, err := db.CleanupBackups(*dir, time.Duration(*retention)*24*time.Hour)
	for _, name := range removed {
		a.logger.Info().Str("file", name).Msg("deleted old backup")
	}
	return err
}

// startMonitoringServer serves /metrics, /healthz and /readyz until ctx is
// done.
func startMonitoringServer(ctx context.Context, port int, database *db.DB, rdb *redis.Client, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctxPing, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := database.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	logger.Info().Int("port", port).Msg("monitoring server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("monitoring server error")
	}
}
