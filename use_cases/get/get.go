package get

import (
	"context"

	"github.com/giovaniif/item-store/domain/item"
)

type Get struct {
	itemRepository item.Repository
}

func NewGet(itemRepository item.Repository) *Get {
	return &Get{
		itemRepository: itemRepository,
	}
}

func (g *Get) Get(ctx context.Context, input Input) (Output, error) {
	found, err := g.itemRepository.GetItem(ctx, input.ItemId)
	if err != nil {
		return Output{}, err
	}

	return Output{Item: *found}, nil
}

type Input struct {
	ItemId string
}

type Output struct {
	Item item.Item
}
