package session

import (
	"context"
	"errors"

	"github.com/rustam-k0/banana-bot/internal/config"
	"github.com/rustam-k0/banana-bot/internal/logger"
)

var ErrNotFound = errors.New("session not found")

// Store is the shared per-user session storage. No transactional
// guarantee across Get+Put; the caller serializes per-user access.
type Store interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID int64) error
	Close() error
}

// NewStore picks the implementation from the storage URL: absent means
// in-process memory (lost on restart), redis means shared durable
// storage, anything else is treated as a sqlite DSN.
func NewStore(cfg config.StorageConfig, log logger.Logger) (Store, error) {
	switch cfg.Backend() {
	case "memory":
		return NewMemoryStore(cfg.SessionTTL), nil
	case "redis":
		return NewRedisStore(cfg.URL, cfg.SessionTTL)
	default:
		return NewSQLiteStore(cfg.URL, log)
	}
}
