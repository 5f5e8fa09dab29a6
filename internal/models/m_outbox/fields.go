package m_outbox

// Field constants for the outbox_events table.
const (
	TableName = "outbox_events"

	ColEventID     = "event_id"
	ColEventType   = "event_type"
	ColAggregateID = "aggregate_id"
	ColPayload     = "payload"
	ColStatus      = "status"
	ColCreatedAt   = "created_at"
	ColProcessedAt = "processed_at"
)

// StatusPending marks an event not yet picked up by a relay.
const StatusPending = "pending"

// insertColumns fixes the column order of outbox inserts.
var insertColumns = []string{
	ColEventID, ColEventType, ColAggregateID, ColPayload, ColStatus, ColCreatedAt, ColProcessedAt,
}
