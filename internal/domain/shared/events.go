// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Events are published after writes and consumed by the
// eventhandler layer, mainly to keep derived statistics caches honest.
const (
	// User events
	EventUserRegistered EventType = "user.registered"
	EventUserUpdated    EventType = "user.updated"

	// Contest events
	EventContestCreated   EventType = "contest.created"
	EventContestUpdated   EventType = "contest.updated"
	EventContestModerated EventType = "contest.moderated"

	// Participation events
	EventParticipationCreated EventType = "participation.created"
	EventTaskSubmitted        EventType = "participation.task_submitted"
	EventPaymentRecorded      EventType = "participation.payment_recorded"
	EventWinnerPicked         EventType = "participation.winner_picked"

	// System events
	EventStatsCacheRebuilt EventType = "system.stats_cache_rebuilt"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// User Events
// ═══════════════════════════════════════════════════════════════════════════

// UserRegisteredEvent is emitted when a new user is created.
type UserRegisteredEvent struct {
	BaseEvent
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Payload implements Event interface.
func (e UserRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email": e.Email,
		"role":  e.Role,
	}
}

// NewUserRegisteredEvent creates a UserRegisteredEvent.
func NewUserRegisteredEvent(userID, email, role string) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: NewBaseEvent(EventUserRegistered, userID),
		Email:     email,
		Role:      role,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Contest Events
// ═══════════════════════════════════════════════════════════════════════════

// ContestCreatedEvent is emitted when a creator submits a new contest.
type ContestCreatedEvent struct {
	BaseEvent
	Name         string `json:"name"`
	CreatorEmail string `json:"creator_email"`
}

// Payload implements Event interface.
func (e ContestCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"name":          e.Name,
		"creator_email": e.CreatorEmail,
	}
}

// NewContestCreatedEvent creates a ContestCreatedEvent.
func NewContestCreatedEvent(contestID, name, creatorEmail string) ContestCreatedEvent {
	return ContestCreatedEvent{
		BaseEvent:    NewBaseEvent(EventContestCreated, contestID),
		Name:         name,
		CreatorEmail: creatorEmail,
	}
}

// ContestUpdatedEvent is emitted when a contest document is replaced.
type ContestUpdatedEvent struct {
	BaseEvent
	CreatorEmail string `json:"creator_email"`
}

// Payload implements Event interface.
func (e ContestUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"creator_email": e.CreatorEmail,
	}
}

// NewContestUpdatedEvent creates a ContestUpdatedEvent.
func NewContestUpdatedEvent(contestID, creatorEmail string) ContestUpdatedEvent {
	return ContestUpdatedEvent{
		BaseEvent:    NewBaseEvent(EventContestUpdated, contestID),
		CreatorEmail: creatorEmail,
	}
}

// ContestModeratedEvent is emitted when an admin approves or rejects a contest.
type ContestModeratedEvent struct {
	BaseEvent
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// Payload implements Event interface.
func (e ContestModeratedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"status":  e.Status,
		"comment": e.Comment,
	}
}

// NewContestModeratedEvent creates a ContestModeratedEvent.
func NewContestModeratedEvent(contestID, status, comment string) ContestModeratedEvent {
	return ContestModeratedEvent{
		BaseEvent: NewBaseEvent(EventContestModerated, contestID),
		Status:    status,
		Comment:   comment,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Participation Events
// ═══════════════════════════════════════════════════════════════════════════

// ParticipationCreatedEvent is emitted when a user enters a contest.
type ParticipationCreatedEvent struct {
	BaseEvent
	ContestID string `json:"contest_id"`
	UserEmail string `json:"user_email"`
}

// Payload implements Event interface.
func (e ParticipationCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"contest_id": e.ContestID,
		"user_email": e.UserEmail,
	}
}

// NewParticipationCreatedEvent creates a ParticipationCreatedEvent.
func NewParticipationCreatedEvent(participationID, contestID, userEmail string) ParticipationCreatedEvent {
	return ParticipationCreatedEvent{
		BaseEvent: NewBaseEvent(EventParticipationCreated, participationID),
		ContestID: contestID,
		UserEmail: userEmail,
	}
}

// TaskSubmittedEvent is emitted when a participant submits their work.
type TaskSubmittedEvent struct {
	BaseEvent
	ContestID string `json:"contest_id"`
	UserEmail string `json:"user_email"`
}

// Payload implements Event interface.
func (e TaskSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"contest_id": e.ContestID,
		"user_email": e.UserEmail,
	}
}

// NewTaskSubmittedEvent creates a TaskSubmittedEvent.
func NewTaskSubmittedEvent(participationID, contestID, userEmail string) TaskSubmittedEvent {
	return TaskSubmittedEvent{
		BaseEvent: NewBaseEvent(EventTaskSubmitted, participationID),
		ContestID: contestID,
		UserEmail: userEmail,
	}
}

// PaymentRecordedEvent is emitted when a payment is confirmed for a participation.
type PaymentRecordedEvent struct {
	BaseEvent
	ContestID       string `json:"contest_id"`
	UserEmail       string `json:"user_email"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// Payload implements Event interface.
func (e PaymentRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"contest_id":        e.ContestID,
		"user_email":        e.UserEmail,
		"payment_intent_id": e.PaymentIntentID,
	}
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent.
func NewPaymentRecordedEvent(participationID, contestID, userEmail, intentID string) PaymentRecordedEvent {
	return PaymentRecordedEvent{
		BaseEvent:       NewBaseEvent(EventPaymentRecorded, participationID),
		ContestID:       contestID,
		UserEmail:       userEmail,
		PaymentIntentID: intentID,
	}
}

// WinnerPickedEvent is emitted when a creator declares a participation winning.
type WinnerPickedEvent struct {
	BaseEvent
	ContestID string `json:"contest_id"`
	UserEmail string `json:"user_email"`
}

// Payload implements Event interface.
func (e WinnerPickedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"contest_id": e.ContestID,
		"user_email": e.UserEmail,
	}
}

// NewWinnerPickedEvent creates a WinnerPickedEvent.
func NewWinnerPickedEvent(participationID, contestID, userEmail string) WinnerPickedEvent {
	return WinnerPickedEvent{
		BaseEvent: NewBaseEvent(EventWinnerPicked, participationID),
		ContestID: contestID,
		UserEmail: userEmail,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// System Events
// ═══════════════════════════════════════════════════════════════════════════

// StatsCacheRebuiltEvent is emitted when the background job refreshes the
// cached statistics read models.
type StatsCacheRebuiltEvent struct {
	BaseEvent
	RowCount int `json:"row_count"`
}

// Payload implements Event interface.
func (e StatsCacheRebuiltEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"row_count": e.RowCount,
	}
}

// NewStatsCacheRebuiltEvent creates a StatsCacheRebuiltEvent.
func NewStatsCacheRebuiltEvent(rowCount int) StatsCacheRebuiltEvent {
	return StatsCacheRebuiltEvent{
		BaseEvent: NewBaseEvent(EventStatsCacheRebuilt, "stats"),
		RowCount:  rowCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
