package dbconn

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tendant/simple-quiz/pkg/config"
	"github.com/tendant/simple-quiz/pkg/errors"
)

// Status represents the connection state published by the manager
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// BootstrapFunc runs against a freshly connected database before the
// manager reports itself connected (e.g., unique index creation).
type BootstrapFunc func(ctx context.Context, db *mongo.Database) error

// Manager owns the Mongo client and its lifecycle. Request handlers read
// connection state through it instead of ambient globals; while it is not
// connected, data-dependent operations fail fast with a 503-mapped error.
type Manager struct {
	uri            string
	database       string
	connectTimeout time.Duration
	retryInterval  time.Duration
	maxPoolSize    uint64

	bootstraps []BootstrapFunc

	mu     sync.RWMutex
	client *mongo.Client
	status Status
	closed bool
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithBootstrap registers a bootstrap step run on every successful connect
func WithBootstrap(fn BootstrapFunc) ManagerOption {
	return func(m *Manager) {
		m.bootstraps = append(m.bootstraps, fn)
	}
}

// NewManager creates a Manager from configuration. No connection is
// attempted until Connect or Start is called.
func NewManager(cfg config.MongoConfig, opts ...ManagerOption) (*Manager, error) {
	connectTimeout, err := cfg.ParseConnectTimeout()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid mongo connect timeout")
	}
	retryInterval, err := cfg.ParseRetryInterval()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid mongo retry interval")
	}

	m := &Manager{
		uri:            cfg.URI,
		database:       cfg.Database,
		connectTimeout: connectTimeout,
		retryInterval:  retryInterval,
		maxPoolSize:    cfg.MaxPoolSize,
		status:         StatusDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Status returns the current connection state
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Connected reports whether the manager holds a verified connection
func (m *Manager) Connected() bool {
	return m.Status() == StatusConnected
}

// Database returns a handle to the configured database, or a
// service-unavailable error while disconnected.
func (m *Manager) Database() (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != StatusConnected || m.client == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "database not connected")
	}
	return m.client.Database(m.database), nil
}

// Connect makes a single connection attempt: dial, ping, then run the
// registered bootstrap steps. Any failure leaves the manager disconnected.
func (m *Manager) Connect(ctx context.Context) error {
	m.setStatus(StatusConnecting)

	opts := options.Client().
		ApplyURI(m.uri).
		SetConnectTimeout(m.connectTimeout).
		SetServerSelectionTimeout(m.connectTimeout).
		SetMaxPoolSize(m.maxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		m.setStatus(StatusDisconnected)
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		m.setStatus(StatusDisconnected)
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to ping mongo")
	}

	db := client.Database(m.database)
	for _, bootstrap := range m.bootstraps {
		if err := bootstrap(ctx, db); err != nil {
			slog.Error("Database bootstrap failed", "err", err)
			_ = client.Disconnect(ctx)
			m.setStatus(StatusDisconnected)
			return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "database bootstrap failed")
		}
	}

	m.mu.Lock()
	m.client = client
	m.status = StatusConnected
	m.mu.Unlock()

	slog.Info("Connected to mongo", "database", m.database)
	return nil
}

// Start runs a supervised connect loop in the background, retrying on a
// fixed interval until a connection is established or ctx is cancelled.
// Requests are served 503 in the meantime rather than hanging.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			if err := m.Connect(ctx); err == nil {
				return
			} else {
				slog.Error("Mongo connection attempt failed, retrying",
					"err", err, "retryIn", m.retryInterval)
			}

			select {
			case <-ctx.Done():
				slog.Info("Mongo reconnect loop stopped", "reason", ctx.Err())
				return
			case <-time.After(m.retryInterval):
			}
		}
	}()
}

// Close releases the client. Safe to call more than once.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.status = StatusDisconnected

	if m.client == nil {
		return nil
	}
	client := m.client
	m.client = nil
	if err := client.Disconnect(ctx); err != nil {
		slog.Error("Failed to disconnect mongo client", "err", err)
		return err
	}
	slog.Info("Mongo connection closed")
	return nil
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	// A closed manager stays disconnected
	if !m.closed {
		m.status = s
	}
	m.mu.Unlock()
}
