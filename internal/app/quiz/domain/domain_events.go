package domain

import "time"

// DomainEvent is a marker interface for all domain events.
// Domain events represent facts about things that have happened in the domain.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// QuestionCreatedEvent is raised when a question created in the editor is stored.
type QuestionCreatedEvent struct {
	QuizID     string
	QuestionID string
	LocalID    string
	Kind       Kind
	Order      int
	CreatedAt  time.Time
}

func (e *QuestionCreatedEvent) EventType() string {
	return "question.created"
}

func (e *QuestionCreatedEvent) AggregateID() string {
	return e.QuestionID
}

func (e *QuestionCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// QuestionUpdatedEvent is raised when an edited question is stored.
type QuestionUpdatedEvent struct {
	QuizID     string
	QuestionID string
	Fields     []string // names of the changed fields
	UpdatedAt  time.Time
}

func (e *QuestionUpdatedEvent) EventType() string {
	return "question.updated"
}

func (e *QuestionUpdatedEvent) AggregateID() string {
	return e.QuestionID
}

func (e *QuestionUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// QuestionDeletedEvent is raised when a removed question is deleted from storage.
type QuestionDeletedEvent struct {
	QuizID     string
	QuestionID string
	DeletedAt  time.Time
}

func (e *QuestionDeletedEvent) EventType() string {
	return "question.deleted"
}

func (e *QuestionDeletedEvent) AggregateID() string {
	return e.QuestionID
}

func (e *QuestionDeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}
