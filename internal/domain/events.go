package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AggregateType partitions outbox events by the entity they concern.
type AggregateType string

const (
	AggregateMatch  AggregateType = "match"
	AggregateReward AggregateType = "reward"
	AggregateTicket AggregateType = "ticket"
)

// EventType names what happened to the aggregate.
type EventType string

const (
	EventMatchFinalized EventType = "finalized"
	EventPhaseGenerated EventType = "phase_generated"
	EventRewardIssued   EventType = "issued"
	EventTicketResolved EventType = "resolved"
)

// OutboxDraft is an event staged in the transactional outbox, written in
// the same transaction as the state change it describes and published to
// Kafka by the outbox consumer.
type OutboxDraft struct {
	SeqID         int64           `json:"-"`
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewMatchFinalizedEvent records an admin finalizing a match result.
func NewMatchFinalizedEvent(m *Match) OutboxDraft {
	payload, _ := json.Marshal(m)
	seq := fmt.Sprintf("%d", m.Seq)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   seq,
		EventType:     EventMatchFinalized,
		PartitionKey:  seq,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewPhaseGeneratedEvent records a bracket phase being (re)generated.
func NewPhaseGeneratedEvent(phase Phase, fixtures int) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"phase":    phase,
		"fixtures": fixtures,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   string(phase),
		EventType:     EventPhaseGenerated,
		PartitionKey:  string(phase),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRewardIssuedEvent records a voucher being created.
func NewRewardIssuedEvent(r *Reward) OutboxDraft {
	payload, _ := json.Marshal(r)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateReward,
		AggregateID:   r.ID.String(),
		EventType:     EventRewardIssued,
		PartitionKey:  r.UserID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewTicketResolvedEvent records a buteur ticket's post-match resolution.
func NewTicketResolvedEvent(t *ButeurTicket) OutboxDraft {
	payload, _ := json.Marshal(t)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateTicket,
		AggregateID:   t.ID.String(),
		EventType:     EventTicketResolved,
		PartitionKey:  fmt.Sprintf("%d", t.MatchSeq),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
