package create

import (
	"context"
	"log/slog"
	"time"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/protocols"
)

type Create struct {
	itemRepository item.Repository
	idGenerator    protocols.IdGenerator
	publisher      protocols.ItemEventPublisher
	now            func() time.Time
}

func NewCreate(itemRepository item.Repository, idGenerator protocols.IdGenerator, publisher protocols.ItemEventPublisher) *Create {
	return &Create{
		itemRepository: itemRepository,
		idGenerator:    idGenerator,
		publisher:      publisher,
		now:            time.Now,
	}
}

func (c *Create) Create(ctx context.Context, input Input) (Output, error) {
	if input.Name == nil || *input.Name == "" {
		return Output{}, item.NewInvalidInputError("'name' is required")
	}

	id, err := c.idGenerator.NextId(ctx)
	if err != nil {
		return Output{}, err
	}

	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	newItem, err := item.New(id, *input.Name, description)
	if err != nil {
		return Output{}, err
	}

	if err := c.itemRepository.Create(ctx, newItem); err != nil {
		return Output{}, err
	}

	event := protocols.ItemEvent{Type: protocols.ItemCreated, Item: newItem, OccurredAt: c.now()}
	if err := c.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish item event", "type", event.Type, "item_id", newItem.Id, "err", err)
	}

	return Output{Item: newItem}, nil
}

type Input struct {
	Name        *string
	Description *string
}

type Output struct {
	Item item.Item
}
