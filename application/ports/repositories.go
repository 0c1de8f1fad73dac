package ports

import (
	"context"

	"relationmap/domain/core/entities"
	"relationmap/domain/events"
)

// PointRepository defines the interface for point persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PointRepository interface {
	// List returns every point in creation order
	List(ctx context.Context) ([]*entities.Point, error)

	// GetByID retrieves a point, returning a NOT_FOUND app error if missing
	GetByID(ctx context.Context, id string) (*entities.Point, error)

	// Create assigns the point a new ID and stores it
	Create(ctx context.Context, point *entities.Point) error

	// Update replaces a stored point, returning NOT_FOUND if it does not exist
	Update(ctx context.Context, point *entities.Point) error

	// AddTags unions tagIDs into the point's tags and returns the stored result
	AddTags(ctx context.Context, id string, tagIDs []string) (*entities.Point, error)

	// Delete removes a point. Deleting a missing point is not an error.
	Delete(ctx context.Context, id string) error
}

// ConnectionRepository defines the interface for connection persistence
type ConnectionRepository interface {
	List(ctx context.Context) ([]*entities.Connection, error)
	GetByID(ctx context.Context, id string) (*entities.Connection, error)
	Create(ctx context.Context, conn *entities.Connection) error
	Delete(ctx context.Context, id string) error

	// DeleteByPoint removes every connection with from or to equal to pointID
	// and returns how many were removed
	DeleteByPoint(ctx context.Context, pointID string) (int, error)
}

// NoteRepository defines the interface for note persistence
type NoteRepository interface {
	List(ctx context.Context) ([]*entities.Note, error)
	GetByID(ctx context.Context, id string) (*entities.Note, error)
	Create(ctx context.Context, note *entities.Note) error
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, id string) error

	// DeleteByPoint removes every note attached to pointID and returns how
	// many were removed
	DeleteByPoint(ctx context.Context, pointID string) (int, error)
}

// TagRepository defines the interface for tag persistence. Tags are never deleted.
type TagRepository interface {
	List(ctx context.Context) ([]*entities.Tag, error)
	Create(ctx context.Context, tag *entities.Tag) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
