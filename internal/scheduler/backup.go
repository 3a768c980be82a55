package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MrSnakeDoc/desk/internal/configstore"
	"github.com/MrSnakeDoc/desk/internal/logger"
)

const (
	backupPrefix = "win98_config-"
	backupSuffix = ".json"
	// backupStamp sorts lexically in time order.
	backupStamp = "20060102T150405Z"
)

// BackupWriter periodically exports the stored configuration to a directory
// and prunes old exports.
type BackupWriter struct {
	store   ConfigStore
	dir     string
	keep    int
	logger  logger.Logger
	now     func() time.Time
	loop    *loop
	started bool
}

// NewBackupWriter creates a writer keeping the newest keep files in dir.
func NewBackupWriter(store ConfigStore, dir string, interval time.Duration, keep int, log logger.Logger) *BackupWriter {
	if keep < 1 {
		keep = 1
	}
	log = log.With(logger.String("dir", dir))
	return &BackupWriter{
		store:  store,
		dir:    dir,
		keep:   keep,
		logger: log,
		now:    time.Now,
		loop:   newLoop("backup", interval, nil, log),
	}
}

// Start creates the directory and schedules exports. The first export
// happens after one interval.
func (bw *BackupWriter) Start(ctx context.Context) error {
	if err := os.MkdirAll(bw.dir, 0o755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	bw.loop.start(ctx, func(ctx context.Context) error {
		_, err := bw.Write(ctx)
		return err
	})
	bw.started = true
	return nil
}

// Stop stops the background exports.
func (bw *BackupWriter) Stop() {
	if bw.started {
		bw.loop.stop()
	}
}

// Write exports the configuration now and returns the file path.
func (bw *BackupWriter) Write(ctx context.Context) (string, error) {
	cfg, err := bw.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("reading configuration: %w", err)
	}
	data, err := configstore.Export(cfg)
	if err != nil {
		return "", err
	}

	name := backupPrefix + bw.now().UTC().Format(backupStamp) + backupSuffix
	path := filepath.Join(bw.dir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}

	removed, err := bw.prune()
	if err != nil {
		bw.logger.Warn("failed to prune old backups", logger.Error(err))
	}
	bw.logger.Info("configuration backup written",
		logger.String("file", name),
		logger.Int("icons", len(cfg.Icons)),
		logger.Int("pruned", removed))
	return path, nil
}

// prune deletes the oldest exports beyond keep.
func (bw *BackupWriter) prune() (int, error) {
	entries, err := os.ReadDir(bw.dir)
	if err != nil {
		return 0, fmt.Errorf("listing backups: %w", err)
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, backupPrefix) && strings.HasSuffix(n, backupSuffix) {
			names = append(names, n)
		}
	}
	if len(names) <= bw.keep {
		return 0, nil
	}

	slices.Sort(names)
	removed := 0
	for _, n := range names[:len(names)-bw.keep] {
		if err := os.Remove(filepath.Join(bw.dir, n)); err != nil {
			return removed, fmt.Errorf("removing %s: %w", n, err)
		}
		removed++
	}
	return removed, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming backup: %w", err)
	}
	return nil
}
