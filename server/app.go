package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"catalog/config"
	"catalog/internal/catalog"
	"catalog/internal/db"
	"catalog/internal/health"
	"catalog/internal/logs"
	"catalog/internal/middleware"
	"catalog/internal/repo"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) error {
	a.cfg = cfg
	a.ctx, a.cancel = context.WithCancel(context.Background())

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB: открываем при старте, закрываем в Close */
	d, err := db.Connect(context.Background(),
		a.cfg.Database.Driver, a.cfg.Database.DSN, a.cfg.Database.LogLevel, a.cfg.Database.ConnectRetries)
	if err != nil {
		return err
	}
	a.db = d
	logs.Logger.Infof("db connected: driver=%s", a.cfg.Database.Driver)

	products := repo.NewProductStore(a.db)
	devices := repo.NewDeviceStore(a.db)

	/* 3) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
		middleware.Metrics,
	)

	/* 4) Health + metrics */
	health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	if a.cfg.Metrics.Enabled {
		a.Router.Handle(a.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	/* 5) API каталога */
	catalog.RegisterRoutes(a.Router, catalog.NewHandler(products, devices))

	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		logs.Logger.Debugf("route: %-6v %s", methods, path)
		return nil
	})
	return nil
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}
	defer a.Close()

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	defer a.cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case s := <-sigs:
			logs.Logger.Infof("shutdown signal: %s", s)
			a.cancel()
		case <-a.ctx.Done():
		}
	}()

	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-a.ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}

// Stop инициирует graceful shutdown запущенного Run.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}

// Close освобождает соединения с БД.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := db.Close(a.db)
	a.db = nil
	if err != nil {
		logs.Logger.Errorf("db close: %v", err)
		return err
	}
	logs.Logger.Info("db closed")
	return nil
}
