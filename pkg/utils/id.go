package utils

import "github.com/google/uuid"

func NewID() string { return uuid.NewString() }

// IsUUID reports whether s parses as a canonical UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
