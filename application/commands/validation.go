// Package commands holds the typed inputs of every mutating operation. Each
// command validates itself before it reaches persistence. Validation rejects
// malformed values only; absent fields are accepted and stored empty.
package commands

import (
	"fmt"

	"relationmap/domain/core/valueobjects"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/utils"
)

const (
	maxNameLength  = 512
	maxTypeLength  = 64
	maxTextLength  = 1 << 20
	maxImageLength = 4 << 20
)

// ValidateID checks that id looks like a record identifier
func ValidateID(kind, id string) error {
	if _, err := valueobjects.ParseRecordID(id); err != nil {
		return pkgerrors.NewValidationError(fmt.Sprintf("invalid %s id: %v", kind, err))
	}
	return nil
}

func validateOptionalRef(field string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := valueobjects.ParseRecordID(*id); err != nil {
		return pkgerrors.NewValidationError(field + " must be a valid id")
	}
	return nil
}

func validateRef(field, id string) error {
	return validateOptionalRef(field, &id)
}

func validateTagIDs(tags []string) error {
	for i, id := range tags {
		if err := utils.ValidateVar(id, "uuid"); err != nil {
			return pkgerrors.NewValidationError(fmt.Sprintf("tags[%d] must be a valid id", i))
		}
	}
	return nil
}

func validateLength(field string, v *string, max int) error {
	if v != nil && len(*v) > max {
		return pkgerrors.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
