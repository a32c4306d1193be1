package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	s := New(42)

	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, TierFlash, s.Tier)
	assert.Nil(t, s.PendingPhoto)
}

func TestTier_Toggle(t *testing.T) {
	assert.Equal(t, TierPro, TierFlash.Toggle())
	assert.Equal(t, TierFlash, TierPro.Toggle())
}

func TestReset_KeepsTier(t *testing.T) {
	s := New(1)
	s.Tier = TierPro
	s.State = StateAwaitEditPrompt
	s.SetPendingPhoto([]byte{1, 2}, "image/jpeg")

	s.Reset()

	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, TierPro, s.Tier)
	assert.Nil(t, s.PendingPhoto)
	assert.Empty(t, s.PendingMIME)
}

func TestTakePendingPhoto_ConsumesOnce(t *testing.T) {
	s := New(1)
	s.SetPendingPhoto([]byte{1, 2, 3}, "image/jpeg")

	data, mime, ok := s.TakePendingPhoto()
	assert.True(t, ok)
	assert.Len(t, data, 3)
	assert.Equal(t, "image/jpeg", mime)

	_, _, ok = s.TakePendingPhoto()
	assert.False(t, ok)
	assert.Nil(t, s.PendingPhoto)
}

func TestTakePendingPhoto_AbsentClearsMIME(t *testing.T) {
	s := New(1)
	s.PendingMIME = "image/jpeg"

	_, _, ok := s.TakePendingPhoto()

	assert.False(t, ok)
	assert.Empty(t, s.PendingMIME)
}
