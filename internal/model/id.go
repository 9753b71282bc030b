package model

import (
	"sync"
	"time"
)

// IDGenerator hands out millisecond-timestamp ids that are strictly
// increasing within one process, even for calls in the same millisecond.
type IDGenerator struct {
	mu    sync.Mutex
	clock func() time.Time
	last  int64
}

func NewIDGenerator(clock func() time.Time) *IDGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &IDGenerator{clock: clock}
}

func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.clock().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe records an id that already exists so Next never reissues it.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}

func (g *IDGenerator) ObserveCategories(categories []Category) {
	for _, c := range categories {
		g.Observe(c.ID)
		for _, t := range c.Tasks {
			g.Observe(t.ID)
		}
	}
}
