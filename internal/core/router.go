package core

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rustam-k0/banana-bot/internal/ai"
	"github.com/rustam-k0/banana-bot/internal/config"
	"github.com/rustam-k0/banana-bot/internal/logger"
	"github.com/rustam-k0/banana-bot/internal/markdown"
	"github.com/rustam-k0/banana-bot/internal/service"
	"github.com/rustam-k0/banana-bot/internal/session"
	"github.com/rustam-k0/banana-bot/internal/telegram"
)

// Router turns an incoming message plus the user's session state into
// model dispatches and replies. One HandleMessage call per message,
// serialized per user by the queue.
type Router struct {
	tg         telegram.Client
	dispatcher *ai.Dispatcher
	sessions   session.Store
	cfg        *config.Config
	localizer  *service.Localizer
	logger     logger.Logger
}

func NewRouter(
	tg telegram.Client,
	dispatcher *ai.Dispatcher,
	sessions session.Store,
	cfg *config.Config,
	localizer *service.Localizer,
	log logger.Logger,
) *Router {
	return &Router{
		tg:         tg,
		dispatcher: dispatcher,
		sessions:   sessions,
		cfg:        cfg,
		localizer:  localizer,
		logger:     log,
	}
}

func (r *Router) HandleMessage(ctx context.Context, in *telegram.IncomingMessage) error {
	s, err := r.sessions.Get(ctx, in.UserID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			r.logger.WithError(err).WithField("user_id", in.UserID).Error("Load session failed")
		}
		s = session.New(in.UserID)
	}

	log := r.logger.WithFields(logger.Fields{
		"request_id": uuid.NewString(),
		"user_id":    in.UserID,
		"state":      string(s.State),
		"tier":       string(s.Tier),
	})

	if err := r.route(ctx, log, s, in); err != nil {
		log.WithError(err).Error("Handle message failed")
		r.reply(in, r.localize("error", map[string]any{
			"Context": "handler",
			"Detail":  err.Error(),
		}), mainKeyboard(r.localizer, s.Tier))
	}

	if err := r.sessions.Put(ctx, s); err != nil {
		log.WithError(err).Error("Save session failed")
	}
	return nil
}

func (r *Router) route(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage) error {
	// image documents count as photos, everything else is rejected
	// before the state machine sees it
	switch in.Kind {
	case telegram.IncomingDocument:
		if strings.HasPrefix(in.MIME, "image/") {
			in.Kind = telegram.IncomingPhoto
		} else {
			r.reply(in, r.localize("document_unsupported", nil), nil)
			return nil
		}
	case telegram.IncomingVideo:
		r.reply(in, r.localize("video_unsupported", nil), nil)
		return nil
	case telegram.IncomingOther:
		r.reply(in, r.localize("unsupported", nil), nil)
		return nil
	}

	if in.Kind == telegram.IncomingVoice {
		text, err := r.transcribe(ctx, log, s, in)
		if err != nil || text == "" {
			return err
		}
		r.reply(in, r.localize("transcript", map[string]any{"Text": text}), nil)
		in.Kind = telegram.IncomingText
		in.Text = text
	}

	if in.Kind == telegram.IncomingText {
		if handled := r.handleCommand(s, in); handled {
			return nil
		}
	}

	switch s.State {
	case session.StateAwaitGenPrompt:
		return r.stateGenPrompt(ctx, log, s, in)
	case session.StateAwaitEditPhoto:
		return r.stateEditPhoto(ctx, log, s, in)
	case session.StateAwaitEditPrompt:
		return r.stateEditPrompt(ctx, log, s, in)
	default:
		return r.stateIdle(ctx, log, s, in)
	}
}

// handleCommand reacts to slash commands and reply-keyboard buttons,
// which arrive as plain text matching the localized labels.
func (r *Router) handleCommand(s *session.Session, in *telegram.IncomingMessage) bool {
	text := strings.TrimSpace(in.Text)

	switch text {
	case "/start":
		s.Reset()
		r.reply(in, r.localize("start_greeting", nil), mainKeyboard(r.localizer, s.Tier))
		return true
	case "/help", r.localize("btn_help", nil):
		r.reply(in, r.localize("help", nil), mainKeyboard(r.localizer, s.Tier))
		return true
	case r.localize("btn_cancel", nil), r.localize("btn_menu", nil):
		s.Reset()
		r.reply(in, r.localize("home_prompt", nil), mainKeyboard(r.localizer, s.Tier))
		return true
	case r.localize("btn_mode_pro", nil):
		r.setTier(s, in, session.TierPro)
		return true
	case r.localize("btn_mode_flash", nil):
		r.setTier(s, in, session.TierFlash)
		return true
	case r.localize("btn_draw", nil):
		s.Reset()
		s.State = session.StateAwaitGenPrompt
		r.reply(in, r.localize("ask_gen_prompt", nil), cancelKeyboard(r.localizer))
		return true
	case r.localize("btn_edit", nil):
		s.Reset()
		s.State = session.StateAwaitEditPhoto
		r.reply(in, r.localize("ask_edit_photo", nil), cancelKeyboard(r.localizer))
		return true
	}
	return false
}

func (r *Router) setTier(s *session.Session, in *telegram.IncomingMessage, tier session.Tier) {
	s.Reset()
	s.Tier = tier
	r.reply(in, r.localize("mode_set", map[string]any{
		"Mode": strings.ToUpper(string(tier)),
	}), mainKeyboard(r.localizer, s.Tier))
}

func (r *Router) stateIdle(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage) error {
	switch in.Kind {
	case telegram.IncomingPhoto:
		// a bare photo means "tell me about this picture"
		data, mime, err := r.download(ctx, in)
		if err != nil {
			return err
		}
		prompt := in.Caption
		if prompt == "" {
			prompt = r.localize("describe_photo_prompt", nil)
		}
		outcome := r.dispatch(ctx, log, s, ai.NewVisionRequest(prompt, data, mime))
		r.deliverText(s, in, outcome)
	case telegram.IncomingText:
		_ = r.tg.SendChatAction(in.ChatID, telegram.ActionTyping)
		outcome := r.dispatch(ctx, log, s, ai.NewTextRequest(in.Text))
		r.deliverText(s, in, outcome)
	}
	return nil
}

func (r *Router) stateGenPrompt(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage) error {
	if in.Kind != telegram.IncomingText {
		r.reply(in, r.localize("send_text_please", nil), cancelKeyboard(r.localizer))
		return nil
	}
	outcome := r.dispatchImage(ctx, log, s, in, ai.NewImageGenerateRequest(in.Text))
	s.Reset()
	r.deliverImage(s, in, outcome)
	return nil
}

func (r *Router) stateEditPhoto(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage) error {
	if in.Kind != telegram.IncomingPhoto {
		r.reply(in, r.localize("send_photo_please", nil), cancelKeyboard(r.localizer))
		return nil
	}
	data, mime, err := r.download(ctx, in)
	if err != nil {
		return err
	}
	s.SetPendingPhoto(data, mime)
	s.State = session.StateAwaitEditPrompt
	r.reply(in, r.localize("ask_edit_prompt", nil), cancelKeyboard(r.localizer))
	return nil
}

func (r *Router) stateEditPrompt(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage) error {
	if in.Kind == telegram.IncomingPhoto {
		// a fresh photo replaces the stored one
		data, mime, err := r.download(ctx, in)
		if err != nil {
			return err
		}
		s.SetPendingPhoto(data, mime)
		r.reply(in, r.localize("ask_edit_prompt", nil), cancelKeyboard(r.localizer))
		return nil
	}
	if in.Kind != telegram.IncomingText {
		r.reply(in, r.localize("send_text_please", nil), cancelKeyboard(r.localizer))
		return nil
	}

	photo, mime, ok := s.TakePendingPhoto()
	if !ok {
		s.Reset()
		r.reply(in, r.localize("photo_lost", nil), mainKeyboard(r.localizer, s.Tier))
		return nil
	}
	outcome := r.dispatchImage(ctx, log, s, in, ai.NewImageEditRequest(in.Text, photo, mime))
	s.Reset()
	r.deliverImage(s, in, outcome)
	return nil
}

func (r *Router) transcribe(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage) (string, error) {
	audio, mime, err := r.download(ctx, in)
	if err != nil {
		return "", err
	}
	_ = r.tg.SendChatAction(in.ChatID, telegram.ActionTyping)
	req := ai.NewTranscribeRequest(r.localize("transcribe_prompt", nil), audio, mime)
	outcome := r.dispatch(ctx, log, s, req)
	if outcome.Kind != ai.OutcomeSuccess || outcome.Result.Kind != ai.ResultText {
		r.deliverText(s, in, outcome)
		return "", nil
	}
	return strings.TrimSpace(outcome.Result.Text), nil
}

func (r *Router) download(ctx context.Context, in *telegram.IncomingMessage) ([]byte, string, error) {
	data, err := r.tg.DownloadFile(ctx, in.FileID)
	if err != nil {
		return nil, "", err
	}
	return data, in.MIME, nil
}

func (r *Router) dispatch(ctx context.Context, log logger.Logger, s *session.Session, req ai.Request) ai.Outcome {
	cascade := r.cfg.AI().Cascade(string(s.Tier), string(req.Capability))
	log.WithFields(logger.Fields{
		"capability": string(req.Capability),
		"cascade":    cascade,
	}).Info("Dispatching request")
	return r.dispatcher.Dispatch(ctx, cascade, req)
}

// dispatchImage wraps dispatch with an ephemeral status message so the
// user sees progress on the slow image calls.
func (r *Router) dispatchImage(ctx context.Context, log logger.Logger, s *session.Session, in *telegram.IncomingMessage, req ai.Request) ai.Outcome {
	_ = r.tg.SendChatAction(in.ChatID, telegram.ActionUploadPhoto)
	status, err := r.tg.Send(telegram.NewMessage(in.ChatID, r.localize("generating", nil), 0))
	outcome := r.dispatch(ctx, log, s, req)
	if err == nil && status != nil {
		if err := r.tg.DeleteMessage(in.ChatID, status.MessageID); err != nil {
			log.WithError(err).Debug("Delete status message failed")
		}
	}
	return outcome
}

// deliverText sends a text outcome: converted to Telegram HTML and
// chunked, with a plain-text resend if the HTML is rejected.
func (r *Router) deliverText(s *session.Session, in *telegram.IncomingMessage, outcome ai.Outcome) {
	kb := mainKeyboard(r.localizer, s.Tier)

	switch outcome.Kind {
	case ai.OutcomeSuccess:
		switch outcome.Result.Kind {
		case ai.ResultText:
			r.sendChunked(in, outcome.Result.Text, kb)
		case ai.ResultImage:
			r.sendPhoto(in, outcome.Result, "", kb)
		default:
			r.reply(in, r.localize("empty_reply", nil), kb)
		}
	case ai.OutcomePolicyBlocked:
		r.reply(in, r.localize("policy_blocked", nil), kb)
	default:
		r.reply(in, r.unavailableText(outcome), kb)
	}
}

func (r *Router) deliverImage(s *session.Session, in *telegram.IncomingMessage, outcome ai.Outcome) {
	kb := mainKeyboard(r.localizer, s.Tier)

	switch outcome.Kind {
	case ai.OutcomeSuccess:
		switch outcome.Result.Kind {
		case ai.ResultImage:
			r.sendPhoto(in, outcome.Result, r.localize("done", nil), kb)
		case ai.ResultText:
			// the model explained itself instead of drawing
			r.sendChunked(in, outcome.Result.Text, kb)
		default:
			r.reply(in, r.localize("image_failed", nil), kb)
		}
	case ai.OutcomePolicyBlocked:
		r.reply(in, r.localize("policy_blocked", nil), kb)
	default:
		r.reply(in, r.unavailableText(outcome), kb)
	}
}

// unavailableText appends a short diagnostic to the unavailable copy so
// the user can report something more useful than "it broke".
func (r *Router) unavailableText(outcome ai.Outcome) string {
	text := r.localize("unavailable", nil)
	if outcome.Err == nil {
		return text
	}
	detail := outcome.Err.Error()
	if runes := []rune(detail); len(runes) > 200 {
		detail = string(runes[:200]) + "…"
	}
	return text + "\n\n" + detail
}

func (r *Router) sendChunked(in *telegram.IncomingMessage, text string, kb telegram.ReplyKeyboardMarkup) {
	chunks := splitMessage(markdown.Convert(text), messageLimit)
	for i, chunk := range chunks {
		msg := telegram.NewMessage(in.ChatID, chunk, 0)
		msg.ParseMode = telegram.ModeHTML
		if i == 0 {
			msg.ReplyTo = in.MessageID
		}
		if i == len(chunks)-1 {
			msg.ReplyMarkup = kb
		}
		if _, err := r.tg.SendWithRetry(msg, 3); err != nil {
			// broken entities: resend this chunk as plain text and
			// keep going, the other chunks may still be fine
			msg.ParseMode = ""
			if _, err := r.tg.SendWithRetry(msg, 3); err != nil {
				r.logger.WithError(err).Error("Send message failed")
			}
		}
	}
}

func (r *Router) sendPhoto(in *telegram.IncomingMessage, result *ai.Result, caption string, kb telegram.ReplyKeyboardMarkup) {
	name := "image.png"
	if result.MIME == "image/jpeg" {
		name = "image.jpg"
	}
	msg := telegram.NewPhotoMessage(in.ChatID, telegram.FileBytes{
		Name:  name,
		Bytes: result.Image,
	}, caption, in.MessageID)
	msg.ReplyMarkup = kb
	if _, err := r.tg.SendWithRetry(msg, 3); err != nil {
		r.logger.WithError(err).Error("Send photo failed")
		r.reply(in, r.localize("image_failed", nil), kb)
	}
}

func (r *Router) reply(in *telegram.IncomingMessage, text string, kb any) {
	msg := telegram.NewMessage(in.ChatID, text, in.MessageID)
	msg.ReplyMarkup = kb
	if _, err := r.tg.SendWithRetry(msg, 3); err != nil {
		r.logger.WithError(err).Error("Send reply failed")
	}
}

func (r *Router) localize(id string, data map[string]any) string {
	return r.localizer.Localize(id, data)
}
