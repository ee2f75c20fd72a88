package list

import (
	"context"

	"github.com/giovaniif/item-store/domain/item"
)

type List struct {
	itemRepository item.Repository
}

func NewList(itemRepository item.Repository) *List {
	return &List{
		itemRepository: itemRepository,
	}
}

func (l *List) List(ctx context.Context) (Output, error) {
	items, err := l.itemRepository.List(ctx)
	if err != nil {
		return Output{}, err
	}
	if items == nil {
		items = []item.Item{}
	}

	return Output{Items: items}, nil
}

type Output struct {
	Items []item.Item
}
