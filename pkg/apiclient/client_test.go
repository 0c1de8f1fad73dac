package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/ports"
	"relationmap/application/services"
	"relationmap/infrastructure/cache"
	"relationmap/infrastructure/messaging"
	"relationmap/infrastructure/persistence/memory"
	"relationmap/interfaces/http/rest"
	"relationmap/pkg/observability"
)

type stubSource struct{}

func (stubSource) FetchArticles(_ context.Context, page int) (*ports.ArticlePage, error) {
	return &ports.ArticlePage{
		Page:          page,
		PageSize:      10,
		TotalArticles: 1,
		Articles: []ports.Article{{
			URI:   "a1",
			Title: "Summit",
			Body:  "Marie Curie met officials in Paris.",
		}},
	}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(context.Context, string) (ports.Entities, error) {
	return ports.Entities{People: []string{"Marie Curie"}, Places: []string{"Paris"}, Organizations: []string{}}, nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	publisher := messaging.NewLogPublisher(logger)
	metrics := observability.NewCollector("apiclient")
	tracer := observability.NewTracer("apiclient", false)
	c := cache.NewInMemoryCache(time.Minute)
	t.Cleanup(c.Close)

	points := services.NewPointService(store.Points(), store.Connections(), store.Notes(), publisher, metrics, tracer, logger)
	svc := rest.Services{
		Points:      points,
		Connections: services.NewConnectionService(store.Connections(), store.Points(), publisher, metrics, logger),
		Notes:       services.NewNoteService(store.Notes(), store.Points(), store.Connections(), store.Tags(), publisher, metrics, logger),
		Tags:        services.NewTagService(store.Tags(), publisher, metrics, logger),
		News:        services.NewNewsService(stubSource{}, stubExtractor{}, c, points, time.Minute, metrics, logger),
	}
	router := rest.NewRouter(svc, rest.Options{RequestTimeout: 5 * time.Second}, metrics, tracer, logger)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	return New(srv.URL+"/", srv.Client(), logger)
}

func TestClient_PointLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	created, err := client.CreatePoint(ctx, commands.CreatePointCommand{Type: "person", X: 10, Y: 20, Name: "Alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{}, created.Tags)

	name := "Alicia"
	updated, err := client.UpdatePoint(ctx, created.ID, commands.UpdatePointCommand{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, 10.0, updated.X)

	points, err := client.ListPoints(ctx)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "Alicia", points[0].Name)

	deleted, err := client.DeletePoint(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted.RemovedConnections)

	points, err = client.ListPoints(ctx)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestClient_ConnectionsAndNotes(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	a, err := client.CreatePoint(ctx, commands.CreatePointCommand{Name: "A"})
	require.NoError(t, err)
	b, err := client.CreatePoint(ctx, commands.CreatePointCommand{Name: "B"})
	require.NoError(t, err)
	tag, err := client.CreateTag(ctx, commands.CreateTagCommand{Name: "work", Color: "#00ff00"})
	require.NoError(t, err)

	conn, err := client.CreateConnection(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, conn.From)
	require.NotNil(t, conn.To)

	view, err := client.CreateNote(ctx, commands.CreateNoteCommand{PointID: a.ID, Text: "met at work"})
	require.NoError(t, err)

	tags := []string{tag.ID}
	note, err := client.UpdateNote(ctx, view.ID, commands.UpdateNoteCommand{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, tags, note.Tags)

	points, err := client.ListPoints(ctx)
	require.NoError(t, err)
	for _, p := range points {
		if p.ID == a.ID {
			assert.Equal(t, tags, p.Tags)
		}
	}

	notes, err := client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, a.ID, notes[0].Note().PointID)

	require.NoError(t, client.DeleteConnection(ctx, conn.ID))
	require.NoError(t, client.DeleteNote(ctx, view.ID))

	conns, err := client.ListConnections(ctx)
	require.NoError(t, err)
	assert.Empty(t, conns)

	allTags, err := client.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, allTags, 1)
}

func TestClient_ErrorsCarryStatus(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	name := "nobody"
	_, err := client.UpdatePoint(ctx, "7f0c4a0e-8d1b-4b7e-9d8e-6a5d2c1b0a99", commands.UpdatePointCommand{Name: &name})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Type)
	assert.NotEmpty(t, apiErr.RequestID)

	_, err = client.CreateConnection(ctx, "not-an-id", "also-not")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, IsNotFound(err))
}

func TestClient_NewsAndSeed(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	page, err := client.News(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, []string{"Marie Curie"}, page.Articles[0].Entities.People)

	seeded, err := client.SeedFromNews(ctx, commands.SeedPointCommand{Page: 1, Selection: "Marie Curie", Name: "Marie Curie"})
	require.NoError(t, err)
	assert.True(t, seeded.Created)
	assert.Equal(t, "person", seeded.Point.Type)

	again, err := client.SeedFromNews(ctx, commands.SeedPointCommand{Page: 1, Selection: "Marie Curie", Name: "Marie Curie"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, seeded.Point.ID, again.Point.ID)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := New(srv.URL, nil, nil)
	_, err := client.ListPoints(context.Background())
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}
