package protocols

import (
	"context"
	"time"

	"github.com/giovaniif/item-store/domain/item"
)

type ItemEventType string

const (
	ItemCreated ItemEventType = "item.created"
	ItemUpdated ItemEventType = "item.updated"
	ItemDeleted ItemEventType = "item.deleted"
)

type ItemEvent struct {
	Type       ItemEventType `json:"type"`
	Item       item.Item     `json:"item"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type ItemEventPublisher interface {
	Publish(ctx context.Context, event ItemEvent) error
}
