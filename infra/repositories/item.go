package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/giovaniif/item-store/domain/item"
)

type ItemRepositoryMemory struct {
	mutex sync.RWMutex
	items map[string]item.Item
}

func NewItemRepositoryMemory() *ItemRepositoryMemory {
	return &ItemRepositoryMemory{
		items: make(map[string]item.Item),
	}
}

func (r *ItemRepositoryMemory) Create(ctx context.Context, newItem item.Item) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, exists := r.items[newItem.Id]; exists {
		return fmt.Errorf("item %s already exists", newItem.Id)
	}
	r.items[newItem.Id] = newItem
	return nil
}

// List returns items ordered by id length then id, which is creation order
// for counter ids.
func (r *ItemRepositoryMemory) List(ctx context.Context) ([]item.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	items := make([]item.Item, 0, len(r.items))
	for _, it := range r.items {
		items = append(items, it)
	}
	slices.SortFunc(items, compareIds)
	return items, nil
}

func (r *ItemRepositoryMemory) GetItem(ctx context.Context, itemId string) (*item.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	repositoryItem, ok := r.items[itemId]
	if !ok {
		return nil, item.NewNotFoundError(itemId)
	}
	return &repositoryItem, nil
}

func (r *ItemRepositoryMemory) Update(ctx context.Context, itemId string, patch item.Patch) (*item.Item, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	repositoryItem, ok := r.items[itemId]
	if !ok {
		return nil, item.NewNotFoundError(itemId)
	}
	repositoryItem.Apply(patch)
	r.items[itemId] = repositoryItem
	return &repositoryItem, nil
}

func (r *ItemRepositoryMemory) Delete(ctx context.Context, itemId string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.items[itemId]; !ok {
		return item.NewNotFoundError(itemId)
	}
	delete(r.items, itemId)
	return nil
}

func (r *ItemRepositoryMemory) Ping(ctx context.Context) error {
	return nil
}

func compareIds(a, b item.Item) int {
	if c := cmp.Compare(len(a.Id), len(b.Id)); c != 0 {
		return c
	}
	return cmp.Compare(a.Id, b.Id)
}
