package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relationmap/domain/core/entities"
	"relationmap/infrastructure/persistence"
	"relationmap/infrastructure/persistence/persistencetest"
)

func TestStore_Contract(t *testing.T) {
	persistencetest.Run(t, func(t *testing.T) persistence.Repositories {
		s := NewStore()
		return persistence.Repositories{
			Points:      s.Points(),
			Connections: s.Connections(),
			Notes:       s.Notes(),
			Tags:        s.Tags(),
		}
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p := &entities.Point{Name: "Alice", Tags: []string{"t1"}}
	require.NoError(t, s.Points().Create(ctx, p))

	got, err := s.Points().GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Tags[0] = "mutated"
	p.Name = "mutated"

	again, err := s.Points().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
	assert.Equal(t, []string{"t1"}, again.Tags)
}
