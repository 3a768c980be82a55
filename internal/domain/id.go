package domain

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues time-based icon ids. Ids are strictly increasing for a
// given generator even when the clock does not advance between calls.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator creates a generator. A nil clock defaults to time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a new id of the form "shortcut_<unix-millis>".
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return IconIDPrefix + strconv.FormatInt(ms, 10)
}

// NextUnused returns the first id from Next that taken rejects. Generators
// start from the clock in every process, so ids already stored by another
// session must be skipped.
func (g *IDGenerator) NextUnused(taken func(id string) bool) string {
	for {
		if id := g.Next(); !taken(id) {
			return id
		}
	}
}
