package item

import "strings"

type Item struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Patch carries the fields of an update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
}

func New(id string, name string, description string) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, NewInvalidInputError("'id' is required")
	}
	if name == "" {
		return Item{}, NewInvalidInputError("'name' is required")
	}
	return Item{
		Id:          id,
		Name:        name,
		Description: description,
	}, nil
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}

func (i *Item) Apply(patch Patch) {
	if patch.Name != nil {
		i.Name = *patch.Name
	}
	if patch.Description != nil {
		i.Description = *patch.Description
	}
}
