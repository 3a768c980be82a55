package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/store"
	"github.com/MrSnakeDoc/desk/internal/store/memory"
)

// countingRepo counts backend reads and can fail them.
type countingRepo struct {
	*memory.Repository
	gets   atomic.Int32
	getErr error
}

func (r *countingRepo) Get(ctx context.Context) (*domain.Configuration, error) {
	r.gets.Add(1)
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.Repository.Get(ctx)
}

func TestGetSeedsDefault(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: memory.New()}
	svc := store.NewService(repo, logger.NewNop())

	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(cfg.Icons) != 21 {
		t.Errorf("len(Icons) = %d, want 21", len(cfg.Icons))
	}

	stored, err := repo.Repository.Get(ctx)
	if err != nil {
		t.Fatalf("seed was not persisted: %v", err)
	}
	if len(stored.Icons) != 21 {
		t.Errorf("stored icons = %d, want 21", len(stored.Icons))
	}
	if svc.LastWrite().IsZero() {
		t.Error("LastWrite() is zero after seeding")
	}
}

func TestGetCustomSeed(t *testing.T) {
	svc := store.NewService(memory.New(), logger.NewNop(),
		store.WithSeed(domain.Empty))

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(cfg.Icons) != 0 {
		t.Errorf("len(Icons) = %d, want 0", len(cfg.Icons))
	}
}

func TestGetReturnsCopies(t *testing.T) {
	svc := store.NewService(memory.New(), logger.NewNop())
	ctx := context.Background()

	first, _ := svc.Get(ctx)
	delete(first.Icons, "grafana")

	second, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !second.Has("grafana") {
		t.Error("mutating a Get() result changed the stored configuration")
	}
}

func TestGetBackendError(t *testing.T) {
	boom := errors.New("disk I/O error")
	repo := &countingRepo{Repository: memory.New(), getErr: boom}
	svc := store.NewService(repo, logger.NewNop())

	if _, err := svc.Get(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Get() error = %v, want wrapped %v", err, boom)
	}
}

func TestConcurrentGet(t *testing.T) {
	repo := &countingRepo{Repository: memory.New()}
	svc := store.NewService(repo, logger.NewNop())
	if err := svc.Put(context.Background(), domain.Empty()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Get(context.Background()); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if n := repo.gets.Load(); n < 1 || n > 20 {
		t.Errorf("backend reads = %d, want between 1 and 20", n)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := store.NewService(memory.New(), logger.NewNop(), store.WithSeed(domain.Empty))

	changed, err := svc.Update(ctx, func(cfg *domain.Configuration) (bool, error) {
		cfg.Icons["a"] = domain.IconRecord{Name: "A", Link: "#", ImageSrc: "a.png"}
		return true, nil
	})
	if err != nil || !changed {
		t.Fatalf("Update() = (%v, %v), want (true, nil)", changed, err)
	}

	changed, err = svc.Update(ctx, func(cfg *domain.Configuration) (bool, error) {
		return false, nil
	})
	if err != nil || changed {
		t.Errorf("no-op Update() = (%v, %v), want (false, nil)", changed, err)
	}

	cfg, _ := svc.Get(ctx)
	if !cfg.Has("a") {
		t.Error("Update() did not persist the change")
	}
}

func TestDefaultConfiguration(t *testing.T) {
	cfg := store.DefaultConfiguration(store.DefaultViewportHeight)

	if cfg.Size != domain.SizeSmall {
		t.Errorf("Size = %v, want small", cfg.Size)
	}
	if got := cfg.Icons["grafana"]; got.Name != "Grafana" || got.Link != "#" || got.ImageSrc != "icons/pack/grafana.png" {
		t.Errorf("grafana = %+v", got)
	}
	// Eight small rows per column at 600px: the ninth icon opens column two.
	if got, want := cfg.Positions["agentdvr"], (domain.Position{X: 90, Y: 5}); got != want {
		t.Errorf("agentdvr position = %+v, want %+v", got, want)
	}
	if got, want := cfg.Positions["jenkins"], (domain.Position{X: 5, Y: 5}); got != want {
		t.Errorf("jenkins position = %+v, want %+v", got, want)
	}
	if len(cfg.Positions) != len(cfg.Icons) {
		t.Errorf("positions = %d, icons = %d", len(cfg.Positions), len(cfg.Icons))
	}
}

// blockingRepo holds reads until released, failing them early only when
// their context ends.
type blockingRepo struct {
	*memory.Repository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *blockingRepo) Get(ctx context.Context) (*domain.Configuration, error) {
	r.once.Do(func() { close(r.entered) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.release:
	}
	return r.Repository.Get(ctx)
}

func TestGetSurvivesCancelledFirstCaller(t *testing.T) {
	repo := &blockingRepo{
		Repository: memory.New(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	if err := repo.Repository.Put(context.Background(), domain.Empty()); err != nil {
		t.Fatal(err)
	}
	svc := store.NewService(repo, logger.NewNop())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Get(firstCtx)
		firstErr <- err
	}()
	<-repo.entered

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.Get(context.Background())
		secondErr <- err
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("first Get() error = %v, want context.Canceled", err)
	}

	close(repo.release)
	if err := <-secondErr; err != nil {
		t.Errorf("second Get() error = %v, want nil", err)
	}
}
