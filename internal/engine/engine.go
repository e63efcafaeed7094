package engine

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ipxplorer/internal/explorer"
	"ipxplorer/internal/models"
)

const (
	// DefaultMaxSessions caps concurrently open sessions when no limit is configured.
	DefaultMaxSessions = 1000
	// DefaultIdleTimeout expires sessions that have shown no activity for this long.
	DefaultIdleTimeout = 30 * time.Minute
)

var (
	ErrTooManySessions = errors.New("too many open sessions")
	ErrUnknownSession  = errors.New("unknown session")
)

// Session binds one explorer instance to one connected view.
//
// The explorer is driven only by the connection that opened the session, so
// it carries no lock of its own.
type Session struct {
	ID        string
	Explorer  *explorer.Explorer
	CreatedAt time.Time

	lastActive time.Time // guarded by Engine.mu
	done       chan struct{}
}

// Done is closed once the session has been closed or expired.
func (s *Session) Done() <-chan struct{} { return s.done }

// Engine keeps track of open explorer sessions.
type Engine struct {
	mu          sync.Mutex
	registry    *explorer.Registry
	clock       clock.Clock
	sessions    map[string]*Session
	maxSessions int
	idleTimeout time.Duration
	total       int
	commands    int
	expired     int
	startTime   time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithMaxSessions limits the number of concurrently open sessions.
func WithMaxSessions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSessions = n
		}
	}
}

// WithIdleTimeout sets how long a session may stay silent before Run expires it.
func WithIdleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.idleTimeout = d
		}
	}
}

// New creates a new Engine.
func New(registry *explorer.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:    registry,
		clock:       clock.New(),
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.startTime = e.clock.Now()
	return e
}

// Registry returns the variant registry the engine serves.
func (e *Engine) Registry() *explorer.Registry { return e.registry }

// Variants describes the available page variants.
func (e *Engine) Variants() []models.VariantInfo {
	var out []models.VariantInfo
	for _, v := range e.registry.All() {
		out = append(out, models.VariantInfo{
			Name:      v.Name,
			Title:     v.Title,
			Sections:  v.SectionNames(),
			DarkTheme: v.DarkTheme,
		})
	}
	return out
}

// OpenSession creates a session showing the named variant in its initial state.
func (e *Engine) OpenSession(variant string) (*Session, error) {
	v, err := e.registry.Get(variant)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.sessions) >= e.maxSessions {
		return nil, errors.Wrapf(ErrTooManySessions, "limit %d", e.maxSessions)
	}

	now := e.clock.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Explorer:   explorer.New(v),
		CreatedAt:  now,
		lastActive: now,
		done:       make(chan struct{}),
	}
	e.sessions[s.ID] = s
	e.total++

	logrus.WithFields(logrus.Fields{
		"session": s.ID,
		"variant": variant,
		"active":  len(e.sessions),
	}).Debug("session opened")
	return s, nil
}

// Session returns an open session by ID.
func (e *Engine) Session(id string) (*Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		return nil, errors.Wrap(ErrUnknownSession, id)
	}
	return s, nil
}

// Touch records that a command was applied to the session.
func (e *Engine) Touch(s *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s.lastActive = e.clock.Now()
	e.commands++
}

// Seen records that the session's peer is still alive without counting a command.
func (e *Engine) Seen(s *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s.lastActive = e.clock.Now()
}

// CloseSession removes a session. Closing an unknown session is a no-op.
func (e *Engine) CloseSession(id string) {
	e.mu.Lock()
	s, ok := e.sessions[id]
	if ok {
		delete(e.sessions, id)
		close(s.done)
	}
	active := len(e.sessions)
	e.mu.Unlock()

	if ok {
		logrus.WithFields(logrus.Fields{
			"session":  id,
			"duration": e.clock.Since(s.CreatedAt).String(),
			"active":   active,
		}).Debug("session closed")
	}
}

// ExpireIdle closes every session silent for longer than the idle timeout and
// returns how many were closed.
func (e *Engine) ExpireIdle() int {
	e.mu.Lock()
	now := e.clock.Now()
	expired := 0
	for id, s := range e.sessions {
		if now.Sub(s.lastActive) <= e.idleTimeout {
			continue
		}
		delete(e.sessions, id)
		close(s.done)
		expired++
	}
	e.expired += expired
	active := len(e.sessions)
	e.mu.Unlock()

	if expired > 0 {
		logrus.WithFields(logrus.Fields{
			"expired": expired,
			"active":  active,
		}).Info("expired idle sessions")
	}
	return expired
}

// Run expires idle sessions every half idle timeout until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	ticker := e.clock.Ticker(e.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.ExpireIdle()
		}
	}
}

// Stats returns a snapshot of session statistics.
func (e *Engine) Stats() models.EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.EngineStats{
		ActiveSessions:  len(e.sessions),
		TotalSessions:   e.total,
		ExpiredSessions: e.expired,
		Commands:        e.commands,
		UptimeSeconds:   e.clock.Since(e.startTime).Seconds(),
	}
}
