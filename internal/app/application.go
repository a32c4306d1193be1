package app

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustam-k0/banana-bot/internal/app/di"
	"github.com/rustam-k0/banana-bot/internal/config"
	"github.com/rustam-k0/banana-bot/internal/core"
	"github.com/rustam-k0/banana-bot/internal/logger"
	"github.com/rustam-k0/banana-bot/internal/session"
)

type Application struct {
	Logger logger.Logger
	cfg    *config.Config
	bot    *core.Bot
	di     *di.Container
	ctx    context.Context
	cancel context.CancelFunc
}

func New() (*Application, error) {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cfg, err := config.Load()
	if err != nil {
		cancel()
		return nil, err
	}

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	container.Logger.Info("DI Container created")

	router := core.NewRouter(
		container.BotClient,
		container.Dispatcher,
		container.Sessions,
		cfg,
		container.Localizer,
		container.Logger,
	)
	bot := core.NewBot(
		container.BotClient,
		router,
		container.Queue,
		cfg,
		container.Localizer,
		container.Logger,
	)

	return &Application{
		Logger: container.Logger,
		cfg:    cfg,
		bot:    bot,
		di:     container,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (a *Application) Start() error {
	a.Logger.Info("Starting application")
	a.startSessionCleaner()
	if err := a.bot.Start(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *Application) WaitForShutdown() {
	<-a.ctx.Done()
	a.cancel()
	if err := a.di.Sessions.Close(); err != nil {
		a.Logger.WithError(err).Error("Failed to close session store")
	}
	a.Logger.Info("Application stopped")
}

// startSessionCleaner drops abandoned sessions from the sqlite store.
// The memory and redis stores expire entries on their own.
func (a *Application) startSessionCleaner() {
	store, ok := a.di.Sessions.(*session.SQLiteStore)
	if !ok {
		return
	}
	ttl := a.cfg.Storage().SessionTTL
	if ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-ticker.C:
				if err := store.PurgeStale(ttl); err != nil {
					a.Logger.WithError(err).Error("Failed to purge stale sessions")
				}
			}
		}
	}()
}
