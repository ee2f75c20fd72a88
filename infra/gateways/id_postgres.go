package gateways

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/giovaniif/item-store/infra"
)

const nextIdQuery = `SELECT nextval('items_id_seq')`

// PostgresIdGenerator draws ids from the items_id_seq sequence created by
// ItemRepositoryPostgres.EnsureSchema.
type PostgresIdGenerator struct {
	db *sql.DB
}

func NewPostgresIdGenerator(db *sql.DB) *PostgresIdGenerator {
	return &PostgresIdGenerator{db: db}
}

func (g *PostgresIdGenerator) NextId(ctx context.Context) (string, error) {
	var next int64
	if err := g.db.QueryRowContext(ctx, nextIdQuery).Scan(&next); err != nil {
		return "", infra.NewStorageError("postgres nextval", err)
	}
	return strconv.FormatInt(next, 10), nil
}
