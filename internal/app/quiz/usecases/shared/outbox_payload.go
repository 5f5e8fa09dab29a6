package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/models/m_outbox"
)

// MarshalDomainEventPayload converts a domain event into a JSON payload suitable for the outbox.
func MarshalDomainEventPayload(ev domain.DomainEvent) (string, error) {
	if ev == nil {
		return "{}", nil
	}

	var payload map[string]interface{}
	switch e := ev.(type) {
	case *domain.QuestionCreatedEvent:
		payload = map[string]interface{}{
			"quiz_id":     e.QuizID,
			"question_id": e.QuestionID,
			"local_id":    e.LocalID,
			"kind":        string(e.Kind),
			"order":       e.Order,
			"created_at":  e.CreatedAt,
		}

	case *domain.QuestionUpdatedEvent:
		payload = map[string]interface{}{
			"quiz_id":     e.QuizID,
			"question_id": e.QuestionID,
			"fields":      e.Fields,
			"updated_at":  e.UpdatedAt,
		}

	case *domain.QuestionDeletedEvent:
		payload = map[string]interface{}{
			"quiz_id":     e.QuizID,
			"question_id": e.QuestionID,
			"deleted_at":  e.DeletedAt,
		}

	default:
		b, err := json.Marshal(ev)
		if err != nil {
			return "", errors.Wrapf(err, "marshal outbox payload for %T", ev)
		}
		return string(b), nil
	}

	payload["event_type"] = ev.EventType()
	payload["occurred_at"] = ev.OccurredAt()
	b, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrapf(err, "marshal outbox payload for %T", ev)
	}
	return string(b), nil
}

// NewOutboxEvent enriches ev into a pending outbox row.
func NewOutboxEvent(ev domain.DomainEvent, now time.Time) (*contracts.OutboxEvent, error) {
	payload, err := MarshalDomainEventPayload(ev)
	if err != nil {
		return nil, err
	}
	return &contracts.OutboxEvent{
		EventID:      uuid.New().String(),
		EventType:    ev.EventType(),
		AggregateID:  ev.AggregateID(),
		PayloadJSON:  payload,
		Status:       m_outbox.StatusPending,
		CreatedAtUTC: now.UTC(),
	}, nil
}
