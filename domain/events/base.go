package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at,
		Version:     1,
	}
}

// Event type names
const (
	TypePointCreated        = "point.created"
	TypePointUpdated        = "point.updated"
	TypePointDeleted        = "point.deleted"
	TypePointTagsPropagated = "point.tags_propagated"
	TypeConnectionCreated   = "connection.created"
	TypeConnectionDeleted   = "connection.deleted"
	TypeNoteCreated         = "note.created"
	TypeNoteUpdated         = "note.updated"
	TypeNoteDeleted         = "note.deleted"
	TypeTagCreated          = "tag.created"
)

// PointCreated is raised when a new point is stored
type PointCreated struct {
	BaseEvent
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewPointCreated creates a PointCreated event
func NewPointCreated(pointID, name, pointType string, at time.Time) PointCreated {
	return PointCreated{BaseEvent: newBase(pointID, TypePointCreated, at), Name: name, Type: pointType}
}

// PointUpdated is raised when a point's fields change
type PointUpdated struct {
	BaseEvent
	Fields []string `json:"fields"`
}

// NewPointUpdated creates a PointUpdated event
func NewPointUpdated(pointID string, fields []string, at time.Time) PointUpdated {
	return PointUpdated{BaseEvent: newBase(pointID, TypePointUpdated, at), Fields: fields}
}

// PointDeleted is raised after a point and its dependents have been removed
type PointDeleted struct {
	BaseEvent
	RemovedConnections int `json:"removed_connections"`
	RemovedNotes       int `json:"removed_notes"`
}

// NewPointDeleted creates a PointDeleted event
func NewPointDeleted(pointID string, connections, notes int, at time.Time) PointDeleted {
	return PointDeleted{
		BaseEvent:          newBase(pointID, TypePointDeleted, at),
		RemovedConnections: connections,
		RemovedNotes:       notes,
	}
}

// PointTagsPropagated is raised when a note update unions tags into its point
type PointTagsPropagated struct {
	BaseEvent
	NoteID string   `json:"note_id"`
	Tags   []string `json:"tags"`
}

// NewPointTagsPropagated creates a PointTagsPropagated event
func NewPointTagsPropagated(pointID, noteID string, tags []string, at time.Time) PointTagsPropagated {
	return PointTagsPropagated{BaseEvent: newBase(pointID, TypePointTagsPropagated, at), NoteID: noteID, Tags: tags}
}

// ConnectionCreated is raised when two points are linked
type ConnectionCreated struct {
	BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

// NewConnectionCreated creates a ConnectionCreated event
func NewConnectionCreated(connectionID, from, to string, at time.Time) ConnectionCreated {
	return ConnectionCreated{BaseEvent: newBase(connectionID, TypeConnectionCreated, at), From: from, To: to}
}

// ConnectionDeleted is raised when a connection is removed directly
type ConnectionDeleted struct {
	BaseEvent
}

// NewConnectionDeleted creates a ConnectionDeleted event
func NewConnectionDeleted(connectionID string, at time.Time) ConnectionDeleted {
	return ConnectionDeleted{BaseEvent: newBase(connectionID, TypeConnectionDeleted, at)}
}

// NoteChanged is raised when a note is created, updated or deleted
type NoteChanged struct {
	BaseEvent
	PointID      string `json:"point_id,omitempty"`
	ConnectionID string `json:"connection_id,omitempty"`
}

// NewNoteChanged creates a NoteChanged event of the given type
func NewNoteChanged(eventType, noteID, pointID, connectionID string, at time.Time) NoteChanged {
	return NoteChanged{
		BaseEvent:    newBase(noteID, eventType, at),
		PointID:      pointID,
		ConnectionID: connectionID,
	}
}

// TagCreated is raised when a tag is stored
type TagCreated struct {
	BaseEvent
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewTagCreated creates a TagCreated event
func NewTagCreated(tagID, name, color string, at time.Time) TagCreated {
	return TagCreated{BaseEvent: newBase(tagID, TypeTagCreated, at), Name: name, Color: color}
}
