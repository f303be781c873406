package id

import "github.com/google/uuid"

// GenerateID creates a random UUIDv4 string. Imported bank rows may carry
// their own ids, so nothing assumes this format.
func GenerateID() string {
	return uuid.NewString()
}
