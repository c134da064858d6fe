// Package uuid generates and validates the random identifiers assigned to
// notes, tags and categories.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a fresh random (v4) identifier in canonical dashed form.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether s parses as a canonical dashed UUID. Stored
// documents written by hand or by older releases are accepted regardless of
// version bits.
func IsValid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Validate returns a descriptive error for identifiers that fail IsValid.
func Validate(s string) error {
	if !IsValid(s) {
		return fmt.Errorf("invalid identifier %q", s)
	}
	return nil
}
