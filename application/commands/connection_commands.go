package commands

import (
	"relationmap/domain/core/entities"
)

// CreateConnectionCommand links two points. Endpoints are not checked for
// existence.
type CreateConnectionCommand struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks the command
func (c CreateConnectionCommand) Validate() error {
	return firstError(validateRef("from", c.From), validateRef("to", c.To))
}

// Connection builds the entity to store
func (c CreateConnectionCommand) Connection() *entities.Connection {
	return &entities.Connection{From: c.From, To: c.To}
}
