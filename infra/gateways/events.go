package gateways

import (
	"context"
	"log/slog"
	"sync"

	"github.com/giovaniif/item-store/protocols"
)

const DefaultEventBufferSize = 1024

// ItemEventPublisherMemory keeps the most recent published events in process.
// It is the publisher used when no broker is configured; once the buffer is
// full the oldest event is overwritten.
type ItemEventPublisherMemory struct {
	mutex  sync.RWMutex
	events []protocols.ItemEvent
	next   int
	size   int
}

func NewItemEventPublisherMemory(size int) *ItemEventPublisherMemory {
	if size <= 0 {
		size = DefaultEventBufferSize
	}
	return &ItemEventPublisherMemory{
		events: make([]protocols.ItemEvent, 0, size),
		size:   size,
	}
}

func (p *ItemEventPublisherMemory) Publish(ctx context.Context, event protocols.ItemEvent) error {
	slog.DebugContext(ctx, "item event", "type", event.Type, "item_id", event.Item.Id)

	p.mutex.Lock()
	defer p.mutex.Unlock()
	if len(p.events) < p.size {
		p.events = append(p.events, event)
		return nil
	}
	p.events[p.next] = event
	p.next = (p.next + 1) % p.size
	return nil
}

// Events returns the buffered events, oldest first.
func (p *ItemEventPublisherMemory) Events() []protocols.ItemEvent {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	out := make([]protocols.ItemEvent, 0, len(p.events))
	out = append(out, p.events[p.next:]...)
	out = append(out, p.events[:p.next]...)
	return out
}
