package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/layout"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/sources/homepage"
)

// SeedReloader merges Homepage services into the stored desktop. Icons
// already present keep their metadata and position; new ones are appended
// at the next free grid slot.
type SeedReloader struct {
	loader         *homepage.Loader
	mapper         *homepage.Mapper
	store          ConfigStore
	logger         logger.Logger
	viewportHeight int
	loop           *loop
	started        bool

	mu         sync.RWMutex
	lastReload time.Time
	lastCount  int
}

// SeedStatus describes the last successful reload.
type SeedStatus struct {
	File       string
	LastReload time.Time
	Services   int
}

// NewSeedReloader creates a reloader for serviceFile. Sending on
// manualTrigger requests an immediate reload.
func NewSeedReloader(
	serviceFile string,
	store ConfigStore,
	log logger.Logger,
	interval time.Duration,
	viewportHeight int,
	manualTrigger <-chan struct{},
) *SeedReloader {
	log = log.With(logger.String("file", serviceFile))
	return &SeedReloader{
		loader:         homepage.NewLoader(serviceFile),
		mapper:         homepage.NewMapper(),
		store:          store,
		logger:         log,
		viewportHeight: viewportHeight,
		loop:           newLoop("seed_reload", interval, manualTrigger, log),
	}
}

// Start merges the file once and then keeps reloading it in the background.
func (sr *SeedReloader) Start(ctx context.Context) error {
	if _, err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed reload failed: %w", err)
	}
	sr.loop.start(ctx, func(ctx context.Context) error {
		_, err := sr.Reload(ctx)
		return err
	})
	sr.started = true
	return nil
}

// Stop stops the background reloads.
func (sr *SeedReloader) Stop() {
	if sr.started {
		sr.loop.stop()
	}
}

// Reload merges the file into the stored configuration and returns the
// number of icons added.
func (sr *SeedReloader) Reload(ctx context.Context) (int, error) {
	config, err := sr.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load services: %w", err)
	}
	icons, err := sr.mapper.MapServices(config)
	if err != nil {
		return 0, fmt.Errorf("failed to map services: %w", err)
	}

	added := 0
	_, err = sr.store.Update(ctx, func(cfg *domain.Configuration) (bool, error) {
		added = mergeIcons(cfg, icons, sr.viewportHeight)
		return added > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store merged configuration: %w", err)
	}

	sr.mu.Lock()
	sr.lastReload = time.Now()
	sr.lastCount = len(icons)
	sr.mu.Unlock()

	sr.logger.Info("seed file merged",
		logger.Int("services", len(icons)),
		logger.Int("added", added))
	return added, nil
}

// Status reports the last successful reload.
func (sr *SeedReloader) Status() SeedStatus {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return SeedStatus{File: sr.loader.Path(), LastReload: sr.lastReload, Services: sr.lastCount}
}

// mergeIcons adds the icons missing from cfg and returns how many were added.
func mergeIcons(cfg *domain.Configuration, icons []homepage.Icon, viewportHeight int) int {
	added := 0
	for _, icon := range icons {
		if cfg.Has(icon.ID) {
			continue
		}
		cfg.Icons[icon.ID] = icon.Record
		if _, placed := cfg.Positions[icon.ID]; !placed {
			cfg.Positions[icon.ID] = layout.NextInsertionSlot(len(cfg.Positions), cfg.Size, viewportHeight, layout.DefaultPadding)
		}
		added++
	}
	return added
}
