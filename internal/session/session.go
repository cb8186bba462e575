package session

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/memstore"
	"github.com/rsheldon/courierlog/internal/seed"
	"github.com/rsheldon/courierlog/internal/service"
)

// CookieName identifies the demo session on the client.
const CookieName = "courier_session"

const cookieMaxAge = 7 * 24 * 60 * 60

// Provider hands out the service bundle for a request. Persistent mode
// uses a single shared bundle; demo mode resolves one per session.
type Provider interface {
	Services(c *gin.Context) (*service.Services, error)
}

// SingleProvider serves every request from one bundle.
type SingleProvider struct {
	services *service.Services
}

func NewSingleProvider(services *service.Services) *SingleProvider {
	return &SingleProvider{services: services}
}

func (p *SingleProvider) Services(*gin.Context) (*service.Services, error) {
	return p.services, nil
}

type entry struct {
	services   *service.Services
	lastAccess time.Time
}

// Manager keeps an isolated, freshly seeded in-memory store per demo
// session, keyed by a uuid cookie. Idle sessions are swept after ttl.
type Manager struct {
	logger   *zap.Logger
	ttl      time.Duration
	seedDays int

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(logger *zap.Logger, ttl time.Duration, seedDays int) *Manager {
	return &Manager{
		logger:   logger,
		ttl:      ttl,
		seedDays: seedDays,
		sessions: make(map[string]*entry),
	}
}

// Services finds or creates the session for the request's cookie. A
// missing or unknown cookie starts a new seeded session and issues a
// fresh id.
func (m *Manager) Services(c *gin.Context) (*service.Services, error) {
	id, err := c.Cookie(CookieName)
	if err != nil || uuid.Validate(id) != nil {
		id = ""
	}

	m.mu.Lock()
	if id != "" {
		if e, ok := m.sessions[id]; ok {
			e.lastAccess = time.Now()
			m.mu.Unlock()
			return e.services, nil
		}
	}
	m.mu.Unlock()

	id = uuid.NewString()
	services, err := m.newSession(c.Request.Context())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = &entry{services: services, lastAccess: time.Now()}
	count := len(m.sessions)
	m.mu.Unlock()

	c.SetCookie(CookieName, id, cookieMaxAge, "/", "", false, true)
	m.logger.Info("Demo session created",
		zap.String("session_id", id),
		zap.Int("active_sessions", count))
	return services, nil
}

func (m *Manager) newSession(ctx context.Context) (*service.Services, error) {
	store := memstore.New()
	if err := seed.Demo(ctx, store, store.Maintenance(), m.seedDays); err != nil {
		return nil, err
	}
	return service.NewServices(ctx, m.logger, store, store.Maintenance())
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.sessions {
		if now.Sub(e.lastAccess) > m.ttl {
			delete(m.sessions, id)
			m.logger.Info("Demo session expired", zap.String("session_id", id))
		}
	}
}
