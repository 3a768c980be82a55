// Package sqlite stores the configuration in a single SQLite row.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// FileName is the database file created in the data directory.
	FileName = "desk.db"
	// RowID identifies the single configuration row.
	RowID = "default"
)

// Repository persists the configuration as JSON columns of one row.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) desk.db in dataDir and applies pending migrations.
// Pass ":memory:" for a private in-memory database.
func Open(ctx context.Context, dataDir string) (*Repository, error) {
	dsn := ":memory:"
	if dataDir != ":memory:" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, FileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: writes are serialized and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)

	r := &Repository{db: db}
	if err := r.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) init(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := r.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := r.migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (r *Repository) Name() string { return "sqlite" }

// Get reads the configuration row.
func (r *Repository) Get(ctx context.Context) (*domain.Configuration, error) {
	var icons, positions, size string
	err := r.db.QueryRowContext(ctx,
		"SELECT icons, positions, size FROM configurations WHERE id = ?", RowID,
	).Scan(&icons, &positions, &size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying configuration: %w", err)
	}

	cfg := &domain.Configuration{Size: domain.Size(size)}
	if err := unmarshalColumn(icons, &cfg.Icons); err != nil {
		return nil, fmt.Errorf("decoding icons column: %w", err)
	}
	if err := unmarshalColumn(positions, &cfg.Positions); err != nil {
		return nil, fmt.Errorf("decoding positions column: %w", err)
	}
	if cfg.Icons == nil {
		cfg.Icons = map[string]domain.IconRecord{}
	}
	if cfg.Positions == nil {
		cfg.Positions = map[string]domain.Position{}
	}
	return cfg, nil
}

// unmarshalColumn decodes a JSON column. An empty column is read as {}.
func unmarshalColumn(col string, v any) error {
	if strings.TrimSpace(col) == "" {
		col = "{}"
	}
	return json.Unmarshal([]byte(col), v)
}

// Put upserts the configuration row.
func (r *Repository) Put(ctx context.Context, cfg *domain.Configuration) error {
	icons, err := json.Marshal(cfg.Icons)
	if err != nil {
		return fmt.Errorf("encoding icons: %w", err)
	}
	positions, err := json.Marshal(cfg.Positions)
	if err != nil {
		return fmt.Errorf("encoding positions: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO configurations (id, icons, positions, size, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			icons = excluded.icons,
			positions = excluded.positions,
			size = excluded.size,
			updated_at = excluded.updated_at`,
		RowID, string(icons), string(positions), string(cfg.Size))
	if err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate applies embedded migrations not yet recorded in schema_version.
func (r *Repository) migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	for _, name := range names {
		version, err := migrationVersion(name)
		if err != nil {
			return err
		}
		if err := r.apply(ctx, version, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) apply(ctx context.Context, version int, name string) error {
	var applied int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_version WHERE version = ?", version,
	).Scan(&applied); err != nil {
		return fmt.Errorf("checking migration %d: %w", version, err)
	}
	if applied > 0 {
		return nil
	}

	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", name, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("applying migration %d: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	return nil
}

// migrationVersion extracts 1 from "001_init.sql".
func migrationVersion(name string) (int, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s: missing version prefix", name)
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s: invalid version: %w", name, err)
	}
	return v, nil
}
