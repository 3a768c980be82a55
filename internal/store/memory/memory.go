// Package memory keeps the configuration in process memory. Nothing survives
// a restart; it backs tests and throwaway instances.
package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/store"
)

// Repository stores one configuration behind a RWMutex.
type Repository struct {
	mu  sync.RWMutex
	cfg *domain.Configuration
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{}
}

func (r *Repository) Name() string { return "memory" }

// Get returns a copy of the stored configuration.
func (r *Repository) Get(context.Context) (*domain.Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cfg == nil {
		return nil, store.ErrNotFound
	}
	return r.cfg.Clone(), nil
}

// Put replaces the stored configuration with a copy of cfg.
func (r *Repository) Put(_ context.Context, cfg *domain.Configuration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = cfg.Clone()
	return nil
}

func (r *Repository) Ping(context.Context) error { return nil }

func (r *Repository) Close() error { return nil }
