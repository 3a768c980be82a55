package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/store"
)

func openTemp(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := Open(context.Background(), dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo, dir
}

func TestGetEmpty(t *testing.T) {
	repo, _ := openTemp(t)
	if _, err := repo.Get(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestPutGetUpsert(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTemp(t)

	first := domain.Empty()
	first.Icons["grafana"] = domain.IconRecord{Name: "Grafana", Link: "https://grafana.local", ImageSrc: "icons/pack/grafana.png"}
	first.Positions["grafana"] = domain.Position{X: 5, Y: 5}
	if err := repo.Put(ctx, first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	second := first.Clone()
	second.Size = domain.SizeLarge
	delete(second.Icons, "grafana")
	delete(second.Positions, "grafana")
	second.Icons["vault"] = domain.IconRecord{Name: "Vault", Link: "#", ImageSrc: "icons/pack/vault.png"}
	second.Positions["vault"] = domain.Position{X: 5, Y: 125}
	if err := repo.Put(ctx, second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("Get() = %+v, want %+v", got, second)
	}

	var rows int
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM configurations").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}

func TestGetEmptyColumns(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTemp(t)

	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO configurations (id, icons, positions, size) VALUES (?, '', '', 'medium')", RowID)
	if err != nil {
		t.Fatalf("insert row: %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := domain.Empty()
	want.Size = domain.SizeMedium
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	cfg := domain.Empty()
	cfg.Size = domain.SizeMedium
	if err := repo.Put(ctx, cfg); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Size != domain.SizeMedium {
		t.Errorf("Size = %v, want medium", got.Size)
	}
}

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{name: "001_init.sql", want: 1},
		{name: "012_add_column.sql", want: 12},
		{name: "init.sql", wantErr: true},
		{name: "abc_init.sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrationVersion(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("migrationVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("migrationVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInMemory(t *testing.T) {
	repo, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	defer repo.Close()
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
