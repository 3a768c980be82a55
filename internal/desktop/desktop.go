// Package desktop holds the single in-memory desktop configuration and funnels
// every user action through it. Each mutation is applied to a working copy,
// saved as a whole, and committed only once the save succeeded.
package desktop

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/desk/internal/configstore"
	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/layout"
	"github.com/MrSnakeDoc/desk/internal/logger"
)

var (
	// ErrInvalidInput is returned when a required field is blank.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownIcon is returned when an operation names an icon that does not exist.
	ErrUnknownIcon = errors.New("unknown icon")
)

// Store persists the whole configuration.
type Store interface {
	Load(ctx context.Context) (*domain.Configuration, error)
	Save(ctx context.Context, cfg *domain.Configuration) error
}

// IconView is what a renderer needs to draw one icon.
type IconView struct {
	ID       string
	Name     string
	Link     string
	ImageSrc string
	Position domain.Position
	// Placed is false when the position was computed because none was stored.
	Placed bool
}

// Desktop is a session over one configuration. Operations are serialized:
// each one completes, including its save, before the next starts.
type Desktop struct {
	mu       sync.Mutex
	store    Store
	cfg      *domain.Configuration
	viewport layout.Viewport
	padding  int
	ids      *domain.IDGenerator
	logger   logger.Logger
}

// Option configures a Desktop.
type Option func(*Desktop)

// WithIDGenerator replaces the default time-based id generator.
func WithIDGenerator(g *domain.IDGenerator) Option {
	return func(d *Desktop) { d.ids = g }
}

// WithPadding overrides layout.DefaultPadding.
func WithPadding(p int) Option {
	return func(d *Desktop) { d.padding = p }
}

// New creates a desktop holding the empty default configuration. Call Start
// to load the persisted state.
func New(store Store, vp layout.Viewport, log logger.Logger, opts ...Option) *Desktop {
	d := &Desktop{
		store:    store,
		cfg:      domain.Empty(),
		viewport: vp,
		padding:  layout.DefaultPadding,
		ids:      domain.NewIDGenerator(nil),
		logger:   log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start loads the persisted configuration. On failure the desktop keeps the
// empty default and the load error is returned.
func (d *Desktop) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg, err := d.store.Load(ctx)
	if cfg == nil {
		cfg = domain.Empty()
	}
	d.cfg = cfg
	if err != nil {
		return fmt.Errorf("start desktop: %w", err)
	}
	d.logger.Debug("desktop started", logger.Int("icons", len(cfg.Icons)))
	return nil
}

// Config returns a copy of the current configuration.
func (d *Desktop) Config() *domain.Configuration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Clone()
}

// apply runs mutate on a working copy and commits it when the save succeeds.
// Must be called with d.mu held.
func (d *Desktop) apply(ctx context.Context, op string, mutate func(*domain.Configuration) error) error {
	next := d.cfg.Clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := d.store.Save(ctx, next); err != nil {
		d.logger.Warn("change not saved, keeping previous state",
			logger.String("op", op), logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	d.cfg = next
	return nil
}

// CreateShortcut adds an icon at the next free grid slot and returns its id.
func (d *Desktop) CreateShortcut(ctx context.Context, name, link, imageSrc string) (string, error) {
	name = strings.TrimSpace(name)
	link = strings.TrimSpace(link)
	if name == "" || link == "" {
		return "", fmt.Errorf("create shortcut: name and link are required: %w", ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var id string
	err := d.apply(ctx, "create shortcut", func(cfg *domain.Configuration) error {
		id = d.ids.NextUnused(func(id string) bool {
			_, positioned := cfg.Positions[id]
			return cfg.Has(id) || positioned
		})
		cfg.Icons[id] = domain.IconRecord{Name: name, Link: link, ImageSrc: imageSrc}.WithDefaults(id)
		cfg.Positions[id] = layout.NextInsertionSlot(len(cfg.Positions), cfg.Size, d.viewport.Height, d.padding)
		return nil
	})
	if err != nil {
		return "", err
	}
	d.logger.Info("shortcut created", logger.String("id", id), logger.String("name", name))
	return id, nil
}

// Delete removes an icon and its position.
func (d *Desktop) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.apply(ctx, "delete icon", func(cfg *domain.Configuration) error {
		if !cfg.Has(id) {
			return fmt.Errorf("delete icon %q: %w", id, ErrUnknownIcon)
		}
		delete(cfg.Icons, id)
		delete(cfg.Positions, id)
		return nil
	})
}

// Rename changes the label of an icon.
func (d *Desktop) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename icon %q: name is required: %w", id, ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.apply(ctx, "rename icon", func(cfg *domain.Configuration) error {
		icon, ok := cfg.Icons[id]
		if !ok {
			return fmt.Errorf("rename icon %q: %w", id, ErrUnknownIcon)
		}
		icon.Name = name
		cfg.Icons[id] = icon
		return nil
	})
}

// UpdateSettings replaces the link and image of an icon, keeping its name.
// Blank values fall back to the defaults.
func (d *Desktop) UpdateSettings(ctx context.Context, id, link, imageSrc string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.apply(ctx, "update icon settings", func(cfg *domain.Configuration) error {
		icon, ok := cfg.Icons[id]
		if !ok {
			return fmt.Errorf("update icon settings %q: %w", id, ErrUnknownIcon)
		}
		icon.Link = strings.TrimSpace(link)
		icon.ImageSrc = strings.TrimSpace(imageSrc)
		cfg.Icons[id] = icon.WithDefaults(id)
		return nil
	})
}

// Move places an icon at (x, y), clamped to the viewport, and returns the
// stored position.
func (d *Desktop) Move(ctx context.Context, id string, x, y int) (domain.Position, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var pos domain.Position
	err := d.apply(ctx, "move icon", func(cfg *domain.Configuration) error {
		if !cfg.Has(id) {
			return fmt.Errorf("move icon %q: %w", id, ErrUnknownIcon)
		}
		pos = layout.Clamp(domain.Position{X: x, Y: y}, cfg.Size, d.viewport)
		cfg.Positions[id] = pos
		return nil
	})
	return pos, err
}

// SortByName rearranges every icon on the grid in name order.
func (d *Desktop) SortByName(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.apply(ctx, "sort icons", func(cfg *domain.Configuration) error {
		d.arrange(cfg)
		return nil
	})
}

// ChangeSize steps the icon size up (direction > 0) or down (direction < 0),
// wrapping around, then rearranges the grid.
func (d *Desktop) ChangeSize(ctx context.Context, direction int) (domain.Size, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := layout.NextSize(d.cfg.Size, direction)
	if err := d.resize(ctx, next); err != nil {
		return d.cfg.Size, err
	}
	return next, nil
}

// SetSize sets the icon size and rearranges the grid.
func (d *Desktop) SetSize(ctx context.Context, size domain.Size) error {
	if !size.Valid() {
		return fmt.Errorf("set size %q: %w", size, ErrInvalidInput)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resize(ctx, size)
}

func (d *Desktop) resize(ctx context.Context, size domain.Size) error {
	return d.apply(ctx, "resize icons", func(cfg *domain.Configuration) error {
		cfg.Size = size
		d.arrange(cfg)
		return nil
	})
}

// arrange replaces every position with the name-sorted grid.
func (d *Desktop) arrange(cfg *domain.Configuration) {
	named := make([]layout.NamedIcon, 0, len(cfg.Icons))
	for _, id := range slices.Sorted(maps.Keys(cfg.Icons)) {
		named = append(named, layout.NamedIcon{ID: id, Name: cfg.Icons[id].Name})
	}
	// Map order is random, so equal names fall back to id order.
	order := layout.SortByName(named)
	cfg.Positions = layout.ArrangeGrid(order, cfg.Size, d.viewport.Height, d.padding)
}

// Import replaces the whole configuration with an exported one. The local
// state changes only after the server accepted the upload.
func (d *Desktop) Import(ctx context.Context, data []byte) ([]domain.ValidationWarning, error) {
	imported, warnings, err := configstore.Import(data)
	if err != nil {
		return nil, fmt.Errorf("import configuration: %w", err)
	}
	for _, w := range warnings {
		d.logger.Warn("imported value coerced", logger.String("warning", w.String()))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	err = d.apply(ctx, "import configuration", func(cfg *domain.Configuration) error {
		*cfg = *imported
		return nil
	})
	if err != nil {
		return warnings, err
	}
	d.logger.Info("configuration imported", logger.Int("icons", len(imported.Icons)))
	return warnings, nil
}

// Export refreshes the configuration from the server and renders it for a
// download. When the refresh fails the last known state is exported.
func (d *Desktop) Export(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Warn("refresh before export failed, exporting local state", logger.Error(err))
	} else {
		d.cfg = cfg
	}
	return configstore.Export(d.cfg)
}

// Icons returns every icon in display order: stored positions first, sorted
// column by column, then icons without a position at the following slots.
func (d *Desktop) Icons() []IconView {
	d.mu.Lock()
	defer d.mu.Unlock()

	views := make([]IconView, 0, len(d.cfg.Icons))
	var unplaced []string
	for id, icon := range d.cfg.Icons {
		pos, ok := d.cfg.Positions[id]
		if !ok {
			unplaced = append(unplaced, id)
			continue
		}
		views = append(views, newView(id, icon, pos, true))
	}

	slices.SortFunc(views, func(a, b IconView) int {
		return cmp.Or(
			cmp.Compare(a.Position.X, b.Position.X),
			cmp.Compare(a.Position.Y, b.Position.Y),
			cmp.Compare(a.ID, b.ID),
		)
	})

	slices.Sort(unplaced)
	for _, id := range unplaced {
		pos := layout.NextInsertionSlot(len(views), d.cfg.Size, d.viewport.Height, d.padding)
		views = append(views, newView(id, d.cfg.Icons[id], pos, false))
	}
	return views
}

func newView(id string, icon domain.IconRecord, pos domain.Position, placed bool) IconView {
	return IconView{
		ID:       id,
		Name:     icon.Name,
		Link:     icon.Link,
		ImageSrc: icon.ImageSrc,
		Position: pos,
		Placed:   placed,
	}
}
