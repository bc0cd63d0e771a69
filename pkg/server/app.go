package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SentinelShield/internal/domain/repository"
	"SentinelShield/internal/usecase"
	"SentinelShield/pkg/config"
	xhttp "SentinelShield/pkg/http"
	pkgkafka "SentinelShield/pkg/kafka"
	applogger "SentinelShield/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle: the monitoring loop,
// the optional social topic consumer and the HTTP surface.
type App struct {
	cfg      *config.Config
	l        *applogger.Logger
	monitor  *usecase.Monitor
	consumer *pkgkafka.Consumer
	sh       pkgkafka.MessageHandler
	pub      repository.Publisher
	archive  repository.Archive
	handlers []xhttp.Handler

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	monitor *usecase.Monitor,
	consumer *pkgkafka.Consumer,
	sh pkgkafka.MessageHandler,
	pub repository.Publisher,
	archive repository.Archive,
	handlers []xhttp.Handler,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		monitor:  monitor,
		consumer: consumer,
		sh:       sh,
		pub:      pub,
		archive:  archive,
		handlers: handlers,
	}
}

// routeSet registers every handler's routes on one Echo instance.
type routeSet []xhttp.Handler

func (rs routeSet) RegisterRoutes(e *echo.Echo) {
	for _, h := range rs {
		h.RegisterRoutes(e)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(routeSet(a.handlers),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsLogger(a.l),
	)

	go a.monitor.Run(ctx)
	a.l.Info("monitor started",
		applogger.Strings("symbols", a.cfg.Monitor.Symbols),
		applogger.Duration("poll", a.cfg.Monitor.PollInterval),
	)

	if a.consumer != nil && a.sh != nil {
		a.consumer.WithConsumerHook(pkgkafka.LoggingHook{L: a.l})
		a.consumer.RegisterHandler(a.sh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.l.Info("kafka consumer started", applogger.String("topic", a.sh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.l.Warn("archive close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
