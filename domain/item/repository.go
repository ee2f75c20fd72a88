package item

import "context"

type Repository interface {
	Create(ctx context.Context, item Item) error
	List(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, itemId string) (*Item, error)
	Update(ctx context.Context, itemId string, patch Patch) (*Item, error)
	Delete(ctx context.Context, itemId string) error
	Ping(ctx context.Context) error
}
