package subject

import "github.com/paesprep/backend/internal/id"

// Subject is a PAES test area (Matemática M1, Lenguaje, ...).
// It sits one level above Topic in the hierarchy:
// Subject → Topics → Questions.
type Subject struct {
	ID   string
	Name string
}

// New creates a Subject with a generated ID.
func New(name string) *Subject {
	return &Subject{
		ID:   id.GenerateID(),
		Name: name,
	}
}
