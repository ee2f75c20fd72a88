package update

import (
	"context"
	"log/slog"
	"time"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/protocols"
)

type Update struct {
	itemRepository item.Repository
	publisher      protocols.ItemEventPublisher
	now            func() time.Time
}

func NewUpdate(itemRepository item.Repository, publisher protocols.ItemEventPublisher) *Update {
	return &Update{
		itemRepository: itemRepository,
		publisher:      publisher,
		now:            time.Now,
	}
}

// Update applies input.Patch to an existing item. A missing item is
// reported before the patch is validated. A patch without known fields
// returns the item unchanged.
func (u *Update) Update(ctx context.Context, input Input) (Output, error) {
	existing, err := u.itemRepository.GetItem(ctx, input.ItemId)
	if err != nil {
		return Output{}, err
	}
	if input.Patch == nil {
		return Output{}, item.NewInvalidInputError("JSON data expected")
	}
	if input.Patch.IsEmpty() {
		return Output{Item: *existing}, nil
	}

	updated, err := u.itemRepository.Update(ctx, input.ItemId, *input.Patch)
	if err != nil {
		return Output{}, err
	}

	event := protocols.ItemEvent{Type: protocols.ItemUpdated, Item: *updated, OccurredAt: u.now()}
	if err := u.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish item event", "type", event.Type, "item_id", updated.Id, "err", err)
	}

	return Output{Item: *updated}, nil
}

type Input struct {
	ItemId string
	// Patch is nil when the request carried no JSON object to apply.
	Patch *item.Patch
}

type Output struct {
	Item item.Item
}
