package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"courtbook/internal/api"
	"courtbook/internal/booking"
	"courtbook/internal/config"
	"courtbook/internal/db"
	"courtbook/internal/events"
	"courtbook/internal/metrics"
	"courtbook/internal/model"
	"courtbook/internal/session"
)

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	loc    *time.Location
	rules  booking.Rules

	bus    *events.Bus
	db     *db.DB
	rdb    *redis.Client
	sess   *session.Manager
	client *api.Client

	in  *bufio.Reader
	out io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, in io.Reader, out io.Writer) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	model.SetLocation(loc)
	a := &app{
		cfg:    cfg,
		logger: logger,
		loc:    loc,
		rules:  booking.Rules{MinAdvance: cfg.BookingMinAdvance(), MaxAdvance: cfg.BookingMaxAdvance()},
		bus:    events.NewBus(),
		in:     bufio.NewReader(in),
		out:    out,
	}

	metrics.Register()
	a.bus.Subscribe(metrics.ObserveEvent)

	if a.db, err = db.NewDB(cfg.Database.Path); err != nil {
		return nil, err
	}
	a.bus.Subscribe(a.db.Record)

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sess = session.NewManager(store, a.bus, logger)

	opts := []api.Option{api.WithTimeout(cfg.Timeout())}
	if cfg.API.RatePerSecond > 0 {
		opts = append(opts, api.WithRateLimit(cfg.API.RatePerSecond, cfg.API.Burst))
	}
	a.client = api.NewClient(cfg.API.BaseURL, a.sess, logger, opts...)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (session.Store, error) {
	switch a.cfg.Session.Store {
	case "memory":
		return session.NewMemoryStore(), nil
	case "sqlite":
		return a.db.TokenStore(), nil
	case "redis":
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Address,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return session.NewRedisStore(a.rdb, a.cfg.Session.RedisKey), nil
	default:
		return session.NewFileStore(a.cfg.Session.Path), nil
	}
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *app) publish(e events.Event) {
	if err := a.bus.Publish(e); err != nil {
		a.logger.Warn().Err(err).Str("type", string(e.Type)).Msg("event handler failed")
	}
}

func (a *app) say(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
