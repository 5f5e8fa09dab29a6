package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// BuildInsertMap constructs the values of one outbox row. processed_at
// starts NULL.
func BuildInsertMap(eventID, eventType, aggregateID, payload, status string, createdAt time.Time) map[string]interface{} {
	if status == "" {
		status = StatusPending
	}
	return map[string]interface{}{
		ColEventID:     eventID,
		ColEventType:   eventType,
		ColAggregateID: aggregateID,
		ColPayload:     payload,
		ColStatus:      status,
		ColCreatedAt:   createdAt,
		ColProcessedAt: nil,
	}
}

// InsertMutation turns a values map into an insert on outbox_events. Columns
// missing from values are written as NULL.
func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	vals := make([]interface{}, len(insertColumns))
	for i, c := range insertColumns {
		vals[i] = values[c]
	}
	return spanner.Insert(TableName, insertColumns, vals)
}
