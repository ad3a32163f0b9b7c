package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeCompleted EventType = "completed"
	EventTypeRecorded  EventType = "recorded"
	EventTypeApplied   EventType = "applied"
	EventTypeDue       EventType = "due"
	EventTypeCashedOut EventType = "cashed_out"
)

// EntityType represents the kind of entity the event is about
type EntityType string

const (
	EntityTypeMember   EntityType = "member"
	EntityTypeLoan     EntityType = "loan"
	EntityTypePayment  EntityType = "payment"
	EntityTypeInterest EntityType = "interest"
	EntityTypeFund     EntityType = "fund"
)

// Event is one discrete domain event handed to audit and notification
// consumers. The core emits events; it does not format or store logs.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"` // combined, e.g. "loan.created"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MemberCreated creates a member.created event
func MemberCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeMember, payload)
}

// MemberUpdated creates a member.updated event
func MemberUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeMember, payload)
}

// MemberCashedOut creates a member.cashed_out event
func MemberCashedOut(payload interface{}) Event {
	return NewEvent(EventTypeCashedOut, EntityTypeMember, payload)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// LoanUpdated creates a loan.updated event
func LoanUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeLoan, payload)
}

// LoanCompleted creates a loan.completed event
func LoanCompleted(payload interface{}) Event {
	return NewEvent(EventTypeCompleted, EntityTypeLoan, payload)
}

// PaymentRecorded creates a payment.recorded event
func PaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypePayment, payload)
}

// InterestApplied creates an interest.applied event
func InterestApplied(payload interface{}) Event {
	return NewEvent(EventTypeApplied, EntityTypeInterest, payload)
}

// InterestDue creates an interest.due event
func InterestDue(payload interface{}) Event {
	return NewEvent(EventTypeDue, EntityTypeInterest, payload)
}
