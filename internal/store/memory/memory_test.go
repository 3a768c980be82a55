package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/store"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()

	if _, err := repo.Get(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() on empty repository error = %v, want ErrNotFound", err)
	}

	cfg := domain.Empty()
	cfg.Icons["a"] = domain.IconRecord{Name: "A", Link: "#", ImageSrc: "a.png"}
	if err := repo.Put(ctx, cfg); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Mutating the caller's value must not leak into the repository.
	cfg.Icons["b"] = domain.IconRecord{Name: "B"}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Icons) != 1 {
		t.Errorf("len(Icons) = %d, want 1", len(got.Icons))
	}

	got.Icons["c"] = domain.IconRecord{Name: "C"}
	again, _ := repo.Get(ctx)
	if len(again.Icons) != 1 {
		t.Errorf("Get() result shares state with the repository")
	}
}
