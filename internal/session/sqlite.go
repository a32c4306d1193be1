package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rustam-k0/banana-bot/internal/logger"
)

// SQLiteStore is the single-node durable store: sessions survive
// restarts without an external service.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSQLiteStore(dsn string, log logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	log.WithField("dsn", dsn).Debug("Session database ready")

	return &SQLiteStore{db: db, logger: log}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID int64) (*Session, error) {
	sess := Session{UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT state, tier, pending_photo, pending_mime, updated_at
		FROM sessions WHERE user_id = ?
	`, userID).Scan(&sess.State, &sess.Tier, &sess.PendingPhoto, &sess.PendingMIME, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, state, tier, pending_photo, pending_mime, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			state = excluded.state,
			tier = excluded.tier,
			pending_photo = excluded.pending_photo,
			pending_mime = excluded.pending_mime,
			updated_at = excluded.updated_at
	`, sess.UserID, sess.State, sess.Tier, sess.PendingPhoto, sess.PendingMIME, time.Now())
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// PurgeStale removes sessions not touched within maxAge. Keeps pending
// photo blobs from piling up for users who walked away mid-flow.
func (s *SQLiteStore) PurgeStale(maxAge time.Duration) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE updated_at < ?", time.Now().Add(-maxAge))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.WithField("count", n).Debug("Purged stale sessions")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
