package topic

import "github.com/paesprep/backend/internal/id"

// Topic belongs to exactly one subject and is used as a filter dimension
// when composing exams and as the grouping key for mastery stats.
type Topic struct {
	ID        string
	SubjectID string
	Name      string
}

func New(subjectID, name string) *Topic {
	return &Topic{
		ID:        id.GenerateID(),
		SubjectID: subjectID,
		Name:      name,
	}
}
