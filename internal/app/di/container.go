package di

import (
	"context"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/rustam-k0/banana-bot/internal/ai"
	"github.com/rustam-k0/banana-bot/internal/config"
	"github.com/rustam-k0/banana-bot/internal/logger"
	"github.com/rustam-k0/banana-bot/internal/queue"
	"github.com/rustam-k0/banana-bot/internal/service"
	"github.com/rustam-k0/banana-bot/internal/session"
	"github.com/rustam-k0/banana-bot/internal/telegram"
)

type Container struct {
	BotClient  telegram.Client
	Logger     logger.Logger
	Cfg        *config.Config
	Sessions   session.Store
	AI         *ai.Client
	Dispatcher *ai.Dispatcher
	Queue      *queue.Queue
	Localizer  *service.Localizer
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logCfg := cfg.Log()
	l := logger.NewLogrusLogger(&logCfg)

	if len(cfg.Telegram().AllowedUsers) == 0 {
		l.Warn("Allow-list is empty, every incoming message will be ignored")
	}

	localizer, err := service.NewLocalizer(cfg.Global().InterfaceLanguage)
	if err != nil {
		l.WithError(err).Fatal("Error create localizer")
	}

	sessions, err := session.NewStore(cfg.Storage(), l)
	if err != nil {
		return nil, err
	}
	l.WithField("backend", cfg.Storage().Backend()).Info("Session store initialized")

	aiCfg := cfg.AI()
	aiClient, err := ai.NewClient(ctx, aiCfg.APIKey, aiCfg.RequestTimeout, aiCfg.ThinkingBudget, l)
	if err != nil {
		return nil, err
	}
	dispatcher := ai.NewDispatcher(aiClient, aiCfg.PolicyStopsCascade, l)

	queueCfg := cfg.Queue()
	q := queue.New(ctx, queue.Options{
		Buffer:   queueCfg.Buffer,
		Requests: queueCfg.Throttle.Requests,
		Period:   queueCfg.Throttle.Period,
	}, l)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram().Token)
	if err != nil {
		l.WithError(err).Fatal("Bot API client initialization error")
	}
	l.Info("Bot API initialized")

	return &Container{
		BotClient:  telegram.NewBotClient(api, cfg.Telegram(), l),
		Logger:     l,
		Cfg:        cfg,
		Sessions:   sessions,
		AI:         aiClient,
		Dispatcher: dispatcher,
		Queue:      q,
		Localizer:  localizer,
	}, nil
}
