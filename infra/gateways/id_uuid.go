package gateways

import (
	"context"

	"github.com/google/uuid"
)

type UuidIdGenerator struct{}

func NewUuidIdGenerator() *UuidIdGenerator {
	return &UuidIdGenerator{}
}

func (g *UuidIdGenerator) NextId(ctx context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
