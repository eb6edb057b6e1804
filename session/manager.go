package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"voicebridge/config"
	"voicebridge/gemini"
	"voicebridge/metrics"
)

// Manager tracks all live relay sessions. Each accepted connection
// gets its own independent session; the only shared resource is the
// Gemini client factory.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	cfg     *config.Config
	gemini  *gemini.Client
	redis   *redis.Client
	metrics *metrics.Metrics
}

// NewManager creates a session manager. Redis is used as a session
// index when reachable; the relay works without it.
func NewManager(cfg *config.Config, gc *gemini.Client, m *metrics.Metrics) *Manager {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Redis unavailable, continue without it
		redisClient = nil
	}

	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		gemini:   gc,
		redis:    redisClient,
		metrics:  m,
	}
}

// CreateSession registers a new relay session for an accepted
// WebSocket connection. The Live session opens later, during Run's
// handshake.
func (sm *Manager) CreateSession(ctx context.Context, conn *websocket.Conn) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.cfg.MaxSessions {
		return nil, fmt.Errorf("maximum sessions reached")
	}

	id := uuid.New().String()

	openLive := func(ctx context.Context, setup gemini.SetupConfig) (LiveSession, error) {
		return sm.gemini.ConnectLive(ctx, setup)
	}
	newTranscriber := func(setup gemini.SetupConfig) Transcriber {
		return sm.gemini.NewTranscriber(setup)
	}

	s := NewSession(id, newWSClient(conn), openLive, newTranscriber, sm.metrics, sm.cfg.MaxBufferSize)
	sm.sessions[id] = s
	sm.storeSession(ctx, id, s)

	sm.metrics.SessionsCreated.Inc()
	sm.metrics.ActiveSessions.Inc()
	return s, nil
}

// storeSession mirrors the session into the Redis index
func (sm *Manager) storeSession(ctx context.Context, id string, s *Session) {
	if sm.redis == nil {
		return
	}
	sm.redis.HSet(ctx, "session:"+id, map[string]interface{}{
		"created_at":    s.CreatedAt.Format(time.RFC3339),
		"last_activity": s.LastActivity().Format(time.RFC3339),
		"status":        "active",
	})
	sm.redis.SAdd(ctx, "active_sessions", id)
	sm.redis.Expire(ctx, "session:"+id, sm.cfg.SessionTimeout)
}

// GetSession retrieves a session by ID
func (sm *Manager) GetSession(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, exists := sm.sessions[id]
	return s, exists
}

// RemoveSession closes and unregisters a session
func (sm *Manager) RemoveSession(ctx context.Context, id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.removeLocked(ctx, id)
}

func (sm *Manager) removeLocked(ctx context.Context, id string) error {
	s, exists := sm.sessions[id]
	if !exists {
		return nil
	}

	s.Close()
	delete(sm.sessions, id)
	sm.metrics.ActiveSessions.Dec()

	if sm.redis != nil {
		sm.redis.Del(ctx, "session:"+id)
		sm.redis.SRem(ctx, "active_sessions", id)
	}
	return nil
}

// ActiveSessionCount returns the current session count
func (sm *Manager) ActiveSessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupInactiveSessions removes sessions idle past the timeout
func (sm *Manager) CleanupInactiveSessions(ctx context.Context) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for id, s := range sm.sessions {
		if now.Sub(s.LastActivity()) > sm.cfg.SessionTimeout {
			sm.removeLocked(ctx, id)
		}
	}
}

// StartCleanupRoutine runs periodic cleanup until ctx is cancelled
func (sm *Manager) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.CleanupInactiveSessions(ctx)
		}
	}
}

// Shutdown closes all sessions and the Redis connection
func (sm *Manager) Shutdown() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id, s := range sm.sessions {
		s.Close()
		delete(sm.sessions, id)
		sm.metrics.ActiveSessions.Dec()
	}

	if sm.redis != nil {
		sm.redis.Close()
	}
}
