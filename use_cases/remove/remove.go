package remove

import (
	"context"
	"log/slog"
	"time"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/protocols"
)

type Remove struct {
	itemRepository item.Repository
	publisher      protocols.ItemEventPublisher
	now            func() time.Time
}

func NewRemove(itemRepository item.Repository, publisher protocols.ItemEventPublisher) *Remove {
	return &Remove{
		itemRepository: itemRepository,
		publisher:      publisher,
		now:            time.Now,
	}
}

func (r *Remove) Remove(ctx context.Context, input Input) error {
	existing, err := r.itemRepository.GetItem(ctx, input.ItemId)
	if err != nil {
		return err
	}

	if err := r.itemRepository.Delete(ctx, input.ItemId); err != nil {
		return err
	}

	event := protocols.ItemEvent{Type: protocols.ItemDeleted, Item: *existing, OccurredAt: r.now()}
	if err := r.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish item event", "type", event.Type, "item_id", input.ItemId, "err", err)
	}

	return nil
}

type Input struct {
	ItemId string
}
