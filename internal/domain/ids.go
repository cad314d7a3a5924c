package domain

import "github.com/google/uuid"

// ValidateID verifica que el id tenga formato UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
