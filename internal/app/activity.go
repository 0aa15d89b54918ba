package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/adapter/httphandler"
	"github.com/niksmo/shop-admin/internal/adapter/kafka"
	"github.com/niksmo/shop-admin/internal/adapter/storage"
	"github.com/niksmo/shop-admin/internal/core/service"
	"github.com/niksmo/shop-admin/pkg/retry"
	"github.com/niksmo/shop-admin/pkg/schema"
)

var pingRetry = retry.Policy{
	Attempts: 5,
	Backoff:  retry.ExponentialBackoff(200*time.Millisecond, 5*time.Second),
	OnRetry: func(attempt int, err error) {
		slog.Warn("database is not ready", "attempt", attempt, "err", err)
	},
}

// An ActivityApp consumes the admin activity stream into PostgreSQL and
// serves it over HTTP.
type ActivityApp struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      storage.SQLDB
	serde      schema.Serde
	tlsCfg     *tls.Config
	service    *service.ActivityService
	httpServer httphandler.HTTPServer
}

func NewActivityApp(ctx context.Context, cfg config.Config) *ActivityApp {
	app := &ActivityApp{ctx: ctx, cfg: cfg}

	InitLogger(os.Stderr, cfg.LogLevel)
	app.initStorage()
	app.initSerde()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *ActivityApp) initStorage() {
	const op = "ActivityApp.initStorage"

	db, err := storage.NewSQLDB(app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	err = retry.Do(app.ctx, pingRetry, func() error {
		return db.Ping(app.ctx)
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = db
}

func (app *ActivityApp) initSerde() {
	const op = "ActivityApp.initSerde"

	tlsCfg, err := BrokerTLS(app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := newActivitySerde(app.ctx, app.cfg, tlsCfg)
	if err != nil {
		app.fallDown(op, err)
	}
	app.serde = serde
	app.tlsCfg = tlsCfg
}

func (app *ActivityApp) initCoreService() {
	const op = "ActivityApp.initCoreService"

	repo := storage.NewActivityRepository(app.sqldb)
	s := service.NewActivity(repo, repo, nil)

	p, err := kafka.NewActivityProcessor(
		app.cfg.Broker.SeedBrokers,
		app.cfg.Broker.Topics.Activity,
		app.cfg.Broker.Consumers.ActivityGroup,
		app.serde,
		s,
		kafka.ProcessorTLSOpts(app.tlsCfg)...,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	s.SetProcessor(p)
	app.service = s
}

func (app *ActivityApp) initInboundAdapters() {
	const op = "ActivityApp.initInboundAdapters"

	mux := http.NewServeMux()
	httphandler.RegisterActivity(mux, app.service)

	srv, err := httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, httphandler.AllowJSON(mux),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.httpServer = srv
}

func (app *ActivityApp) Run(stopFn context.CancelFunc) {
	app.service.Run(app.ctx, stopFn)
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *ActivityApp) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *ActivityApp) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

// GroupTableTopic is the compacted topic goka keeps the group table in.
func GroupTableTopic(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}
