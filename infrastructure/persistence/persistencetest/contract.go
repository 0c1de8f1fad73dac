// Package persistencetest is a behavioural test suite every storage driver
// runs against its own repositories.
package persistencetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relationmap/domain/core/entities"
	"relationmap/infrastructure/persistence"
	pkgerrors "relationmap/pkg/errors"
)

// Factory returns fresh, empty repositories for one subtest
type Factory func(t *testing.T) persistence.Repositories

// Run exercises the repository contract against the driver built by newRepos
func Run(t *testing.T, newRepos Factory) {
	t.Run("points keep creation order and assign ids", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		alice := &entities.Point{Name: "Alice", Type: "person", X: 10, Y: 20}
		bob := &entities.Point{Name: "Bob"}
		require.NoError(t, repos.Points.Create(ctx, alice))
		require.NoError(t, repos.Points.Create(ctx, bob))

		assert.NotEmpty(t, alice.ID)
		assert.NotEqual(t, alice.ID, bob.ID)

		points, err := repos.Points.List(ctx)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, "Alice", points[0].Name)
		assert.Equal(t, "person", points[0].Type)
		assert.Equal(t, 10.0, points[0].X)
		assert.Equal(t, 20.0, points[0].Y)
		assert.Equal(t, []string{}, points[0].Tags)
		assert.Equal(t, "Bob", points[1].Name)
	})

	t.Run("point get update and missing", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		p := &entities.Point{Name: "Alice"}
		require.NoError(t, repos.Points.Create(ctx, p))

		p.Name = "Alice B."
		p.Tags = []string{"t1"}
		require.NoError(t, repos.Points.Update(ctx, p))

		got, err := repos.Points.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice B.", got.Name)
		assert.Equal(t, []string{"t1"}, got.Tags)

		_, err = repos.Points.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
		assert.True(t, pkgerrors.IsNotFound(err))

		err = repos.Points.Update(ctx, &entities.Point{ID: "00000000-0000-4000-8000-000000000000"})
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("add tags is a union", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		p := &entities.Point{Name: "Alice", Tags: []string{"t1", "t2"}}
		require.NoError(t, repos.Points.Create(ctx, p))

		got, err := repos.Points.AddTags(ctx, p.ID, []string{"t2", "t3"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t1", "t2", "t3"}, got.Tags)

		got, err = repos.Points.AddTags(ctx, p.ID, []string{"t3", "t1"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t1", "t2", "t3"}, got.Tags)

		stored, err := repos.Points.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t1", "t2", "t3"}, stored.Tags)

		_, err = repos.Points.AddTags(ctx, "00000000-0000-4000-8000-000000000000", []string{"t1"})
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		p := &entities.Point{Name: "Alice"}
		require.NoError(t, repos.Points.Create(ctx, p))

		require.NoError(t, repos.Points.Delete(ctx, p.ID))
		require.NoError(t, repos.Points.Delete(ctx, p.ID))

		points, err := repos.Points.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, points)
	})

	t.Run("connections delete by point in either direction", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		a, b, c := &entities.Point{Name: "A"}, &entities.Point{Name: "B"}, &entities.Point{Name: "C"}
		for _, p := range []*entities.Point{a, b, c} {
			require.NoError(t, repos.Points.Create(ctx, p))
		}
		ab := &entities.Connection{From: a.ID, To: b.ID}
		ca := &entities.Connection{From: c.ID, To: a.ID}
		bc := &entities.Connection{From: b.ID, To: c.ID}
		for _, conn := range []*entities.Connection{ab, ca, bc} {
			require.NoError(t, repos.Connections.Create(ctx, conn))
		}

		removed, err := repos.Connections.DeleteByPoint(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		conns, err := repos.Connections.List(ctx)
		require.NoError(t, err)
		require.Len(t, conns, 1)
		assert.Equal(t, bc.ID, conns[0].ID)
		assert.Equal(t, b.ID, conns[0].From)
		assert.Equal(t, c.ID, conns[0].To)

		got, err := repos.Connections.GetByID(ctx, bc.ID)
		require.NoError(t, err)
		assert.Equal(t, bc.ID, got.ID)

		require.NoError(t, repos.Connections.Delete(ctx, bc.ID))
		_, err = repos.Connections.GetByID(ctx, bc.ID)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("notes delete by point only touches point notes", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		a := &entities.Point{Name: "A"}
		require.NoError(t, repos.Points.Create(ctx, a))
		pointNote := &entities.Note{PointID: a.ID, Text: "about A"}
		connNote := &entities.Note{ConnectionID: "11111111-1111-4111-8111-111111111111", Text: "about a link"}
		require.NoError(t, repos.Notes.Create(ctx, pointNote))
		require.NoError(t, repos.Notes.Create(ctx, connNote))

		removed, err := repos.Notes.DeleteByPoint(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		notes, err := repos.Notes.List(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, connNote.ID, notes[0].ID)
		assert.Equal(t, "about a link", notes[0].Text)
	})

	t.Run("note update and missing", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		n := &entities.Note{Text: "draft", Image: "https://example.com/a.png", Tags: []string{"t1"}}
		require.NoError(t, repos.Notes.Create(ctx, n))

		n.Text = "final"
		require.NoError(t, repos.Notes.Update(ctx, n))

		got, err := repos.Notes.GetByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Text)
		assert.Equal(t, "https://example.com/a.png", got.Image)
		assert.Equal(t, []string{"t1"}, got.Tags)

		require.NoError(t, repos.Notes.Delete(ctx, n.ID))
		err = repos.Notes.Update(ctx, n)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("tags list and create", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		family := &entities.Tag{Name: "family", Color: "#ff0000"}
		work := &entities.Tag{Name: "work", Color: "blue"}
		require.NoError(t, repos.Tags.Create(ctx, family))
		require.NoError(t, repos.Tags.Create(ctx, work))

		tags, err := repos.Tags.List(ctx)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, *family, *tags[0])
		assert.Equal(t, *work, *tags[1])
	})
}
