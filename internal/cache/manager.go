package cache

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pmf-io/matrix-formatter/internal/config"
)

// ErrUnsupportedBackend indicates the configured backend name has no
// implementation. An unknown name is a construction-time error, never a
// silent fallback to memory.
var ErrUnsupportedBackend = errors.New("unsupported cache backend")

// Manager gates every cache operation on the resolved cache settings and
// supplies the configured default TTL. The snapshot is immutable for the
// manager's lifetime, so the enabled check is a plain field read on each call.
type Manager struct {
	cfg     *config.Config
	backend Backend
	logger  *zap.Logger
}

// ManagerOption configures Manager construction.
type ManagerOption func(*Manager)

// WithBackend bypasses the configuration-driven backend selection,
// primarily for tests.
func WithBackend(backend Backend) ManagerOption {
	return func(m *Manager) {
		m.backend = backend
	}
}

// NewManager constructs a manager for the snapshot's cache settings. The
// backend is selected by the configured name, matched case-insensitively.
func NewManager(cfg *config.Config, logger *zap.Logger, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.backend == nil {
		backend, err := newBackend(cfg.Cache().Backend())
		if err != nil {
			return nil, err
		}
		m.backend = backend
	}
	return m, nil
}

func newBackend(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

// Enabled reports whether caching is live according to the snapshot.
func (m *Manager) Enabled() bool {
	return m.cfg.Cache().Enabled()
}

// Get returns the cached value for key. It always misses when caching is
// disabled.
func (m *Manager) Get(key string) (any, bool) {
	if !m.Enabled() {
		return nil, false
	}
	return m.backend.Get(key)
}

// Set stores value under key using the configured default TTL.
func (m *Manager) Set(key string, value any) {
	m.SetWithTTL(key, value, m.defaultTTL())
}

// SetWithTTL stores value under key with an explicit TTL. A no-op when
// caching is disabled.
func (m *Manager) SetWithTTL(key string, value any, ttl time.Duration) {
	if !m.Enabled() {
		return
	}
	m.backend.Set(key, value, ttl)
	m.logger.Debug("cache set", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Delete removes the entry for key and reports whether one existed. It
// reports false when caching is disabled.
func (m *Manager) Delete(key string) bool {
	if !m.Enabled() {
		return false
	}
	return m.backend.Delete(key)
}

// Clear removes every entry. A no-op when caching is disabled.
func (m *Manager) Clear() {
	if !m.Enabled() {
		return
	}
	m.backend.Clear()
	m.logger.Info("cache cleared")
}

func (m *Manager) defaultTTL() time.Duration {
	return time.Duration(m.cfg.Cache().TTL()) * time.Second
}
