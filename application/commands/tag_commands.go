package commands

import (
	"relationmap/domain/core/entities"
	"relationmap/pkg/utils"
)

// CreateTagCommand carries the fields of a new tag
type CreateTagCommand struct {
	Name  string `json:"name" validate:"max=128"`
	Color string `json:"color" validate:"omitempty,tagcolor"`
}

// Validate checks the command
func (c CreateTagCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// Tag builds the entity to store
func (c CreateTagCommand) Tag() *entities.Tag {
	return &entities.Tag{Name: c.Name, Color: c.Color}
}
