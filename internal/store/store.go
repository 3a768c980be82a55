// Package store persists the desktop configuration on the server side.
// The whole configuration is stored as one record and replaced on every
// write: the last writer wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/metrics"
)

// ErrNotFound is returned by a Repository holding no configuration yet.
var ErrNotFound = errors.New("configuration not found")

// Repository is a storage backend for the single configuration record.
type Repository interface {
	Name() string
	Get(ctx context.Context) (*domain.Configuration, error)
	Put(ctx context.Context, cfg *domain.Configuration) error
	Ping(ctx context.Context) error
	Close() error
}

// Service fronts a Repository: it seeds the default configuration on first
// read, collapses concurrent reads and records metrics.
type Service struct {
	repo   Repository
	seed   func() *domain.Configuration
	logger logger.Logger

	// writeMu serializes writers so Update is an atomic read-modify-write.
	writeMu sync.Mutex
	reads   singleflight.Group

	mu        sync.RWMutex
	lastWrite time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSeed replaces the configuration stored when the backend is empty.
func WithSeed(seed func() *domain.Configuration) Option {
	return func(s *Service) { s.seed = seed }
}

// NewService wraps repo. The default seed is DefaultConfiguration at the
// default viewport height.
func NewService(repo Repository, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		seed:   func() *domain.Configuration { return DefaultConfiguration(DefaultViewportHeight) },
		logger: log.With(logger.String("backend", repo.Name())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the name of the underlying repository.
func (s *Service) Backend() string { return s.repo.Name() }

// Get returns the stored configuration, storing and returning the seed when
// the backend is empty. The result is owned by the caller.
func (s *Service) Get(ctx context.Context) (*domain.Configuration, error) {
	// The shared read may serve other callers, so it ignores cancellation.
	// Each caller stops waiting on its own ctx.
	ch := s.reads.DoChan("config", func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("configuration read shared with a concurrent caller")
		}
		return res.Val.(*domain.Configuration).Clone(), nil
	}
}

func (s *Service) load(ctx context.Context) (*domain.Configuration, error) {
	cfg, err := s.get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// A writer may have stored a configuration while we waited.
	cfg, err = s.get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	seed := s.seed()
	if err := s.put(ctx, seed); err != nil {
		return nil, fmt.Errorf("store default configuration: %w", err)
	}
	s.logger.Info("stored default configuration", logger.Int("icons", len(seed.Icons)))
	return seed, nil
}

// Put replaces the stored configuration.
func (s *Service) Put(ctx context.Context, cfg *domain.Configuration) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.put(ctx, cfg)
}

// Update applies fn to the stored configuration and writes the result when
// fn reports a change. No other write can interleave.
func (s *Service) Update(ctx context.Context, fn func(cfg *domain.Configuration) (bool, error)) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cfg, err := s.get(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		cfg = s.seed()
	case err != nil:
		return false, err
	}

	changed, err := fn(cfg)
	if err != nil || !changed {
		return false, err
	}
	if err := s.put(ctx, cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Ping checks that the backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.repo.Ping(ctx)
	metrics.ObserveStore(s.repo.Name(), "ping", err, time.Since(start))
	return err
}

// LastWrite returns when this process last stored a configuration.
func (s *Service) LastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWrite
}

// Close releases the backend.
func (s *Service) Close() error {
	return s.repo.Close()
}

func (s *Service) get(ctx context.Context) (*domain.Configuration, error) {
	start := time.Now()
	cfg, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		metrics.ObserveStore(s.repo.Name(), "get", nil, time.Since(start))
		return nil, err
	}
	metrics.ObserveStore(s.repo.Name(), "get", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("get configuration from %s: %w", s.repo.Name(), err)
	}
	cfg.Normalize()
	return cfg, nil
}

func (s *Service) put(ctx context.Context, cfg *domain.Configuration) error {
	start := time.Now()
	err := s.repo.Put(ctx, cfg)
	metrics.ObserveStore(s.repo.Name(), "put", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("put configuration to %s: %w", s.repo.Name(), err)
	}

	metrics.SetIcons(len(cfg.Icons))
	s.mu.Lock()
	s.lastWrite = time.Now()
	s.mu.Unlock()
	return nil
}
