package telegram

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

type IncomingKind int

const (
	IncomingText IncomingKind = iota
	IncomingVoice
	IncomingPhoto
	IncomingDocument
	IncomingVideo
	IncomingOther
)

// IncomingMessage is the typed inbound event the router consumes:
// user identity plus payload, independent of the wire structs.
type IncomingMessage struct {
	Kind      IncomingKind
	MessageID int
	ChatID    int64
	UserID    int64
	Text      string
	Caption   string
	FileID    string
	MIME      string
}

// AdaptIncoming types a raw message. Photos resolve to their largest
// size; audio files count as voice.
func AdaptIncoming(msg *tgbotapi.Message) *IncomingMessage {
	in := &IncomingMessage{
		Kind:      IncomingOther,
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		Caption:   msg.Caption,
	}
	if msg.From != nil {
		in.UserID = int64(msg.From.ID)
	}

	switch {
	case len(msg.Photo) > 0:
		in.Kind = IncomingPhoto
		in.FileID = msg.Photo[len(msg.Photo)-1].FileID
		in.MIME = "image/jpeg"
	case msg.Voice != nil:
		in.Kind = IncomingVoice
		in.FileID = msg.Voice.FileID
		in.MIME = msg.Voice.MimeType
	case msg.Audio != nil:
		in.Kind = IncomingVoice
		in.FileID = msg.Audio.FileID
		in.MIME = msg.Audio.MimeType
	case msg.Document != nil:
		in.Kind = IncomingDocument
		in.FileID = msg.Document.FileID
		in.MIME = msg.Document.MimeType
	case msg.Video != nil, msg.VideoNote != nil, msg.Animation != nil, msg.Sticker != nil:
		in.Kind = IncomingVideo
	case msg.Text != "":
		in.Kind = IncomingText
		in.Text = msg.Text
	}

	if in.Kind == IncomingVoice && in.MIME == "" {
		in.MIME = "audio/ogg"
	}

	return in
}
