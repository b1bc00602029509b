package domain

import (
	"errors"

	"github.com/google/uuid"
)

// ErrConcurrentModification is returned when a save finds the stored version
// ahead of the aggregate's.
var ErrConcurrentModification = errors.New("aggregate was modified concurrently")

// AggregateRoot is the consistency boundary that records domain events.
type AggregateRoot interface {
	Entity
	DomainEvents() []DomainEvent
	ClearDomainEvents()
	AddDomainEvent(event DomainEvent)
	Version() int
}

// BaseAggregateRoot holds pending events and the optimistic-lock version.
// Version is the number of successful saves; zero means never stored.
type BaseAggregateRoot struct {
	BaseEntity
	domainEvents []DomainEvent
	version      int
}

// NewBaseAggregateRoot creates an aggregate root with a fresh ID.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity()}
}

// NewBaseAggregateRootWithID creates an aggregate root with a caller-chosen ID.
func NewBaseAggregateRootWithID(id uuid.UUID) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntityWithID(id)}
}

// RehydrateBaseAggregateRoot rebuilds an aggregate root from stored values.
// Rehydrated aggregates never carry pending events.
func RehydrateBaseAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity, version: version}
}

// DomainEvents returns the events raised since the last clear.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops all pending events.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// AddDomainEvent records a pending event.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) Version() int { return a.version }

// IncrementVersion bumps the version after a successful write.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.version++
}

// SetVersion overrides the version, used by repositories.
func (a *BaseAggregateRoot) SetVersion(version int) {
	a.version = version
}

// Copy returns an independent copy whose event list can grow without
// touching the original's.
func (a BaseAggregateRoot) Copy() BaseAggregateRoot {
	events := make([]DomainEvent, len(a.domainEvents))
	copy(events, a.domainEvents)
	a.domainEvents = events
	return a
}
