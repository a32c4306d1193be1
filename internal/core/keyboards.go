package core

import (
	"github.com/rustam-k0/banana-bot/internal/service"
	"github.com/rustam-k0/banana-bot/internal/session"
	"github.com/rustam-k0/banana-bot/internal/telegram"
)

// mainKeyboard is the persistent reply keyboard. The mode button shows
// the tier the user would switch to, not the active one.
func mainKeyboard(loc *service.Localizer, tier session.Tier) telegram.ReplyKeyboardMarkup {
	modeBtn := "btn_mode_pro"
	if tier == session.TierPro {
		modeBtn = "btn_mode_flash"
	}
	return telegram.NewReplyKeyboard(
		telegram.NewKeyboardButtonRow(
			telegram.NewKeyboardButton(loc.Localize("btn_draw", nil)),
			telegram.NewKeyboardButton(loc.Localize("btn_edit", nil)),
		),
		telegram.NewKeyboardButtonRow(
			telegram.NewKeyboardButton(loc.Localize(modeBtn, nil)),
			telegram.NewKeyboardButton(loc.Localize("btn_help", nil)),
		),
	)
}

func cancelKeyboard(loc *service.Localizer) telegram.ReplyKeyboardMarkup {
	return telegram.NewReplyKeyboard(
		telegram.NewKeyboardButtonRow(
			telegram.NewKeyboardButton(loc.Localize("btn_cancel", nil)),
		),
	)
}
