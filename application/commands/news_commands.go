package commands

import (
	"strings"

	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/utils"
)

// SeedPointCommand turns a recognised entity selected in an article into a
// point
type SeedPointCommand struct {
	Page      int    `json:"page" validate:"gte=1"`
	Article   int    `json:"article" validate:"gte=0"`
	Selection string `json:"selection" validate:"max=512"`
	Name      string `json:"name" validate:"max=512"`
}

// Validate checks the command
func (c SeedPointCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	if strings.TrimSpace(c.Selection) == "" {
		return pkgerrors.NewValidationError("selection cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return pkgerrors.NewValidationError("name cannot be empty")
	}
	return nil
}
