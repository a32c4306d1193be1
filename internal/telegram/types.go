package telegram

import (
	"context"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

type ParseMode = string

const (
	ModeHTML ParseMode = "HTML"
)

type (
	Update          = tgbotapi.Update
	FileBytes       = tgbotapi.FileBytes
	RequestFileData = tgbotapi.RequestFileData

	ReplyKeyboardMarkup = tgbotapi.ReplyKeyboardMarkup
	KeyboardButton      = tgbotapi.KeyboardButton
)

func NewReplyKeyboard(rows ...[]KeyboardButton) ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func NewKeyboardButtonRow(buttons ...KeyboardButton) []KeyboardButton {
	return tgbotapi.NewKeyboardButtonRow(buttons...)
}

func NewKeyboardButton(text string) KeyboardButton {
	return tgbotapi.NewKeyboardButton(text)
}

type User struct {
	ID        int64
	FirstName string
	UserName  string
}

type Chat struct {
	ID   int64
	Type string
}

type Message struct {
	MessageID int
	Chat      Chat
	Text      string
	From      User
}

type MessageConfig interface {
	ToChattable() tgbotapi.Chattable
}

type TextMessage struct {
	ChatID      int64
	Text        string
	ReplyTo     int
	ReplyMarkup any
	ParseMode   ParseMode
}

func NewMessage(chatID int64, text string, replyTo int) TextMessage {
	return TextMessage{
		ChatID:  chatID,
		Text:    text,
		ReplyTo: replyTo,
	}
}

func (m TextMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	if m.ReplyMarkup != nil {
		msg.ReplyMarkup = m.ReplyMarkup
	}
	return msg
}

type PhotoMessage struct {
	ChatID      int64
	Photo       RequestFileData
	Caption     string
	ReplyTo     int
	ParseMode   string
	ReplyMarkup any
}

func NewPhotoMessage(chatID int64, photo RequestFileData, caption string, replyTo int) PhotoMessage {
	return PhotoMessage{
		ChatID:  chatID,
		Photo:   photo,
		Caption: caption,
		ReplyTo: replyTo,
	}
}

func (m PhotoMessage) ToChattable() tgbotapi.Chattable {
	msg := tgbotapi.NewPhoto(m.ChatID, m.Photo)
	msg.Caption = m.Caption
	msg.ReplyParameters.MessageID = m.ReplyTo
	msg.ParseMode = m.ParseMode
	msg.ReplyMarkup = m.ReplyMarkup
	return msg
}

type UpdateConfig struct {
	Offset  int
	Limit   int
	Timeout int
}

type ChatAction string

const (
	ActionTyping      ChatAction = "typing"
	ActionUploadPhoto ChatAction = "upload_photo"
)

type Client interface {
	Send(msg MessageConfig) (*Message, error)
	SendWithRetry(msg MessageConfig, maxRetryCount int) (*Message, error)
	DeleteMessage(chatID int64, messageID int) error
	SendChatAction(chatID int64, action ChatAction) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
	UpdatesChan(config UpdateConfig) (<-chan Update, error)
	Self() User
}
