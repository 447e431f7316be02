// Package auth provides session-cookie and bearer-token authentication
// for the HTTP layer, backed by a sessions table.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSessionNotFound is returned when a session id does not exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionData is the payload stored for an authenticated session.
type SessionData struct {
	UserID string `json:"user_id"`
}

// Session is a server-side session record.
type Session struct {
	SID       string
	Data      SessionData
	ExpiresAt time.Time
}

// SessionStore persists sessions.
type SessionStore interface {
	Get(ctx context.Context, sid string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sid string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// NewSession creates a session for the given user with a random id.
func NewSession(userID string, ttl time.Duration) *Session {
	return &Session{
		SID:       uuid.New().String(),
		Data:      SessionData{UserID: userID},
		ExpiresAt: time.Now().Add(ttl),
	}
}

// PGSessionStore stores sessions in the sessions table.
type PGSessionStore struct {
	pool *pgxpool.Pool
}

func NewPGSessionStore(pool *pgxpool.Pool) *PGSessionStore {
	return &PGSessionStore{pool: pool}
}

func (s *PGSessionStore) Get(ctx context.Context, sid string) (*Session, error) {
	var (
		sess      Session
		dataBytes []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT sid, sess, expire FROM sessions WHERE sid = $1 AND expire > NOW()`,
		sid,
	).Scan(&sess.SID, &dataBytes, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if err := json.Unmarshal(dataBytes, &sess.Data); err != nil {
		return nil, fmt.Errorf("decoding session data: %w", err)
	}
	return &sess, nil
}

func (s *PGSessionStore) Put(ctx context.Context, session *Session) error {
	dataBytes, err := json.Marshal(session.Data)
	if err != nil {
		return fmt.Errorf("encoding session data: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (sid, sess, expire) VALUES ($1, $2, $3)
		 ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`,
		session.SID, dataBytes, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *PGSessionStore) Delete(ctx context.Context, sid string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE sid = $1`, sid)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and returns the number removed.
func (s *PGSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expire <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MemorySessionStore is an in-memory SessionStore for development and tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Get(_ context.Context, sid string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sid]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemorySessionStore) Put(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.SID] = &cp
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

func (s *MemorySessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for sid, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, sid)
			n++
		}
	}
	return n, nil
}
