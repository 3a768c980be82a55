// Package scheduler runs the background jobs of the server: merging the
// Homepage seed file into the desktop and writing periodic exports.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/metrics"
)

// ConfigStore is the part of the storage service the jobs need.
type ConfigStore interface {
	Get(ctx context.Context) (*domain.Configuration, error)
	Update(ctx context.Context, fn func(cfg *domain.Configuration) (bool, error)) (bool, error)
}

// loop runs job every interval and whenever trigger fires, until Stop or ctx
// cancellation. A nil trigger never fires.
type loop struct {
	name     string
	interval time.Duration
	trigger  <-chan struct{}
	logger   logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newLoop(name string, interval time.Duration, trigger <-chan struct{}, log logger.Logger) *loop {
	return &loop{
		name:     name,
		interval: interval,
		trigger:  trigger,
		logger:   log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (l *loop) start(ctx context.Context, job func(context.Context) error) {
	ticker := time.NewTicker(l.interval)
	go func() {
		defer close(l.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.run(ctx, job)
			case <-l.trigger:
				l.logger.Info("manual run triggered", logger.String("job", l.name))
				l.run(ctx, job)
			case <-l.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (l *loop) run(ctx context.Context, job func(context.Context) error) {
	err := job(ctx)
	metrics.ObserveJob(l.name, err)
	if err != nil {
		l.logger.Error("job failed", logger.String("job", l.name), logger.Error(err))
	}
}

// stop ends the loop and waits for a running job to return.
func (l *loop) stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.done
}
