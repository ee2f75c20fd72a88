package gateways

import (
	"context"
	"strconv"
	"sync"
)

// CounterIdGenerator hands out "1", "2", ... and never reuses a value,
// even after the item holding it is deleted.
type CounterIdGenerator struct {
	mutex sync.Mutex
	last  uint64
}

func NewCounterIdGenerator() *CounterIdGenerator {
	return &CounterIdGenerator{}
}

func (g *CounterIdGenerator) NextId(ctx context.Context) (string, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.last++
	return strconv.FormatUint(g.last, 10), nil
}
