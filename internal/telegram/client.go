package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/rustam-k0/banana-bot/internal/config"
	"github.com/rustam-k0/banana-bot/internal/logger"
)

type BotClient struct {
	bot    *tgbotapi.BotAPI
	cfg    config.TelegramConfig
	http   *http.Client
	logger logger.Logger
}

func NewBotClient(bot *tgbotapi.BotAPI, cfg config.TelegramConfig, log logger.Logger) Client {
	return &BotClient{
		bot:    bot,
		cfg:    cfg,
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: log,
	}
}

func (c *BotClient) Send(msg MessageConfig) (*Message, error) {
	sentMsg, err := c.bot.Send(msg.ToChattable())
	if err != nil {
		return nil, err
	}
	return adaptMessage(&sentMsg), nil
}

func (c *BotClient) SendWithRetry(msg MessageConfig, maxRetryCount int) (*Message, error) {
	maxRetries := 1
	if maxRetryCount > 0 {
		maxRetries = maxRetryCount
	}
	retryCount := 0

	for {
		sentMsg, err := c.bot.Send(msg.ToChattable())
		if err == nil {
			return adaptMessage(&sentMsg), nil
		}

		if strings.Contains(err.Error(), "Too Many Requests: retry after") {
			retryAfter := extractRetryAfter(err.Error())
			waitTime := time.Duration(retryAfter+2) * time.Second

			c.logger.WithFields(logger.Fields{
				"retry_after": retryAfter,
				"wait_time":   waitTime,
				"attempt":     retryCount + 1,
			}).Warn("Rate limit hit, waiting before retry")

			time.Sleep(waitTime)
			retryCount++

			if retryCount > maxRetries {
				c.logger.Error("Max retries reached for rate limited message")
				return nil, err
			}
			continue
		}

		return nil, err
	}
}

func (c *BotClient) DeleteMessage(chatID int64, messageID int) error {
	_, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func (c *BotClient) SendChatAction(chatID int64, action ChatAction) error {
	_, err := c.bot.Request(tgbotapi.NewChatAction(chatID, string(action)))
	return err
}

// DownloadFile fetches a user-uploaded file through the Bot API file
// endpoint.
func (c *BotClient) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(c.bot.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// UpdatesChan returns the inbound update stream. With a webhook URL
// configured it registers the webhook and serves it on the listen
// address; otherwise it drops any stale webhook and long-polls.
func (c *BotClient) UpdatesChan(cfg UpdateConfig) (<-chan Update, error) {
	if c.cfg.UseWebhook() {
		return c.webhookChan()
	}

	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		c.logger.WithError(err).Warn("Failed to delete webhook, polling anyway")
	}

	tgConfig := tgbotapi.UpdateConfig{
		Offset:  cfg.Offset,
		Limit:   cfg.Limit,
		Timeout: cfg.Timeout,
	}
	return c.bot.GetUpdatesChan(tgConfig), nil
}

func (c *BotClient) webhookChan() (<-chan Update, error) {
	path := "/webhook/" + c.bot.Token
	wh, err := tgbotapi.NewWebhook(c.cfg.WebhookURL + path)
	if err != nil {
		return nil, err
	}
	if _, err := c.bot.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	updates := c.bot.ListenForWebhook(path)
	go func() {
		if err := http.ListenAndServe(c.cfg.ListenAddr, nil); err != nil {
			c.logger.WithError(err).Fatal("Webhook server failed")
		}
	}()

	c.logger.WithFields(logger.Fields{
		"url":    c.cfg.WebhookURL + path,
		"listen": c.cfg.ListenAddr,
	}).Info("Webhook registered")

	return updates, nil
}

func (c *BotClient) Self() User {
	return adaptUser(&c.bot.Self)
}

func extractRetryAfter(errMsg string) int {
	re := regexp.MustCompile(`retry after (\d+)`)
	matches := re.FindStringSubmatch(errMsg)
	if len(matches) > 1 {
		retryAfter, _ := strconv.Atoi(matches[1])
		return retryAfter
	}
	return 0
}

func adaptMessage(msg *tgbotapi.Message) *Message {
	if msg == nil {
		return nil
	}
	return &Message{
		MessageID: msg.MessageID,
		Chat:      adaptChat(&msg.Chat),
		Text:      msg.Text,
		From:      adaptUser(msg.From),
	}
}

func adaptUser(user *tgbotapi.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        int64(user.ID),
		FirstName: user.FirstName,
		UserName:  user.UserName,
	}
}

func adaptChat(chat *tgbotapi.Chat) Chat {
	if chat == nil {
		return Chat{}
	}
	return Chat{
		ID:   chat.ID,
		Type: chat.Type,
	}
}
