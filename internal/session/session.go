package session

import "time"

type State string

const (
	StateIdle            State = "idle"
	StateAwaitGenPrompt  State = "await_gen_prompt"
	StateAwaitEditPhoto  State = "await_edit_photo"
	StateAwaitEditPrompt State = "await_edit_prompt"
)

type Tier string

const (
	TierFlash Tier = "flash"
	TierPro   Tier = "pro"
)

func (t Tier) Toggle() Tier {
	if t == TierPro {
		return TierFlash
	}
	return TierPro
}

// Session is the per-user conversational state: what input the bot
// expects next, the chosen quality tier, and a photo waiting for its
// edit instruction. The session exclusively owns PendingPhoto until it
// is consumed or cleared.
type Session struct {
	UserID       int64     `json:"user_id"`
	State        State     `json:"state"`
	Tier         Tier      `json:"tier"`
	PendingPhoto []byte    `json:"pending_photo,omitempty"`
	PendingMIME  string    `json:"pending_mime,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// New returns the default session for a user seen for the first time.
func New(userID int64) *Session {
	return &Session{
		UserID:    userID,
		State:     StateIdle,
		Tier:      TierFlash,
		UpdatedAt: time.Now(),
	}
}

// Reset returns the session to idle and drops any transient data. The
// tier survives: it is a preference, not flow state.
func (s *Session) Reset() {
	s.State = StateIdle
	s.PendingPhoto = nil
	s.PendingMIME = ""
}

func (s *Session) SetPendingPhoto(data []byte, mime string) {
	s.PendingPhoto = data
	s.PendingMIME = mime
}

// TakePendingPhoto consumes the stored photo. The reference is cleared
// unconditionally so the binary payload is never retained past one
// edit attempt, successful or not.
func (s *Session) TakePendingPhoto() ([]byte, string, bool) {
	data, mime := s.PendingPhoto, s.PendingMIME
	s.PendingPhoto = nil
	s.PendingMIME = ""
	if len(data) == 0 {
		return nil, "", false
	}
	return data, mime, true
}
