package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/giovaniif/item-store/domain/item"
	"github.com/giovaniif/item-store/infra"
)

const (
	createItemsSchema = `CREATE SEQUENCE IF NOT EXISTS items_id_seq;
CREATE TABLE IF NOT EXISTS items (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	insertItemQuery = `INSERT INTO items (id, name, description) VALUES ($1, $2, $3)`
	listItemsQuery  = `SELECT id, name, description FROM items ORDER BY created_at, id`
	getItemQuery    = `SELECT id, name, description FROM items WHERE id = $1`
	updateItemQuery = `UPDATE items SET name = COALESCE($2, name), description = COALESCE($3, description) WHERE id = $1 RETURNING id, name, description`
	deleteItemQuery = `DELETE FROM items WHERE id = $1`

	uniqueViolation = pq.ErrorCode("23505")
)

type ItemRepositoryPostgres struct {
	db *sql.DB
}

func NewItemRepositoryPostgres(db *sql.DB) *ItemRepositoryPostgres {
	return &ItemRepositoryPostgres{db: db}
}

// EnsureSchema creates the items table and its id sequence if they are missing.
func (r *ItemRepositoryPostgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createItemsSchema); err != nil {
		return infra.NewStorageError("postgres schema", err)
	}
	return nil
}

func (r *ItemRepositoryPostgres) Create(ctx context.Context, newItem item.Item) error {
	_, err := r.db.ExecContext(ctx, insertItemQuery, newItem.Id, newItem.Name, newItem.Description)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("item %s already exists", newItem.Id)
		}
		return infra.NewStorageError("postgres insert", err)
	}
	return nil
}

func (r *ItemRepositoryPostgres) List(ctx context.Context) ([]item.Item, error) {
	rows, err := r.db.QueryContext(ctx, listItemsQuery)
	if err != nil {
		return nil, infra.NewStorageError("postgres list", err)
	}
	defer rows.Close()

	items := make([]item.Item, 0)
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.Id, &it.Name, &it.Description); err != nil {
			return nil, infra.NewStorageError("postgres scan", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.NewStorageError("postgres rows", err)
	}
	return items, nil
}

func (r *ItemRepositoryPostgres) GetItem(ctx context.Context, itemId string) (*item.Item, error) {
	var it item.Item
	err := r.db.QueryRowContext(ctx, getItemQuery, itemId).Scan(&it.Id, &it.Name, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, item.NewNotFoundError(itemId)
	}
	if err != nil {
		return nil, infra.NewStorageError("postgres get", err)
	}
	return &it, nil
}

func (r *ItemRepositoryPostgres) Update(ctx context.Context, itemId string, patch item.Patch) (*item.Item, error) {
	var it item.Item
	err := r.db.QueryRowContext(ctx, updateItemQuery, itemId, patch.Name, patch.Description).
		Scan(&it.Id, &it.Name, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, item.NewNotFoundError(itemId)
	}
	if err != nil {
		return nil, infra.NewStorageError("postgres update", err)
	}
	return &it, nil
}

func (r *ItemRepositoryPostgres) Delete(ctx context.Context, itemId string) error {
	result, err := r.db.ExecContext(ctx, deleteItemQuery, itemId)
	if err != nil {
		return infra.NewStorageError("postgres delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return infra.NewStorageError("postgres rows affected", err)
	}
	if affected == 0 {
		return item.NewNotFoundError(itemId)
	}
	return nil
}

func (r *ItemRepositoryPostgres) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return infra.NewStorageError("postgres ping", err)
	}
	return nil
}
