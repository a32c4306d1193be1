package core

import (
	"context"
	"errors"

	"github.com/rustam-k0/banana-bot/internal/config"
	"github.com/rustam-k0/banana-bot/internal/logger"
	"github.com/rustam-k0/banana-bot/internal/queue"
	"github.com/rustam-k0/banana-bot/internal/service"
	"github.com/rustam-k0/banana-bot/internal/telegram"
)

type Bot struct {
	tg        telegram.Client
	router    *Router
	queue     *queue.Queue
	cfg       *config.Config
	localizer *service.Localizer
	logger    logger.Logger
}

func NewBot(
	tg telegram.Client,
	router *Router,
	queue *queue.Queue,
	cfg *config.Config,
	localizer *service.Localizer,
	log logger.Logger,
) *Bot {
	return &Bot{
		tg:        tg,
		router:    router,
		queue:     queue,
		cfg:       cfg,
		localizer: localizer,
		logger:    log,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	updates, err := b.tg.UpdatesChan(telegram.UpdateConfig{Timeout: 60})
	if err != nil {
		return err
	}

	b.logger.WithField("bot", b.tg.Self().UserName).Info("Bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			msg := update.Message
			if msg == nil || msg.From == nil {
				continue
			}

			userID := int64(msg.From.ID)
			if !b.cfg.Telegram().IsUserAllowed(userID) {
				b.logger.WithFields(logger.Fields{
					"user_id":  userID,
					"username": msg.From.UserName,
					"chat_id":  msg.Chat.ID,
				}).Warn("Unauthorized access attempt")
				continue
			}

			in := telegram.AdaptIncoming(msg)
			err := b.queue.Enqueue(userID, func() {
				if err := b.router.HandleMessage(ctx, in); err != nil {
					b.logger.WithError(err).Error("Handle message failed")
				}
			})
			if err != nil {
				if errors.Is(err, queue.ErrBusy) {
					reply := telegram.NewMessage(in.ChatID, b.localizer.Localize("busy", nil), in.MessageID)
					if _, err := b.tg.Send(reply); err != nil {
						b.logger.WithError(err).Error("Send busy reply failed")
					}
					continue
				}
				b.logger.WithError(err).Error("Enqueue failed")
			}
		}
	}
}
