package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/dto"
	"relationmap/domain/core/entities"
	"relationmap/pkg/apiclient"
)

var errServer = errors.New("server unavailable")

// fakeAPI is an in-memory server. Setting fail makes the named method error.
type fakeAPI struct {
	mu     sync.Mutex
	seq    int
	points map[string]*entities.Point
	conns  map[string]*entities.Connection
	notes  map[string]*entities.Note
	tags   []*entities.Tag
	fail   map[string]bool
	// allow lets a failing method succeed this many more times first.
	allow map[string]int
	calls []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		points: map[string]*entities.Point{},
		conns:  map[string]*entities.Connection{},
		notes:  map[string]*entities.Note{},
		fail:   map[string]bool{},
		allow:  map[string]int{},
	}
}

func (f *fakeAPI) enter(method string) error {
	f.calls = append(f.calls, method)
	if !f.fail[method] {
		return nil
	}
	if f.allow[method] > 0 {
		f.allow[method]--
		return nil
	}
	return errServer
}

func (f *fakeAPI) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeAPI) ListPoints(context.Context) ([]*entities.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListPoints"); err != nil {
		return nil, err
	}
	out := make([]*entities.Point, 0, len(f.points))
	for i := 1; i <= f.seq; i++ {
		if p, ok := f.points[fmt.Sprintf("p%d", i)]; ok {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (f *fakeAPI) CreatePoint(_ context.Context, cmd commands.CreatePointCommand) (*entities.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreatePoint"); err != nil {
		return nil, err
	}
	p := cmd.Point()
	p.ID = f.nextID("p")
	f.points[p.ID] = p
	return p.Clone(), nil
}

func (f *fakeAPI) UpdatePoint(_ context.Context, id string, cmd commands.UpdatePointCommand) (*entities.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdatePoint"); err != nil {
		return nil, err
	}
	p, ok := f.points[id]
	if !ok {
		return nil, &apiclient.Error{Status: 404, Type: "NOT_FOUND", Message: "point not found"}
	}
	cmd.Apply(p)
	return p.Clone(), nil
}

func (f *fakeAPI) DeletePoint(_ context.Context, id string) (*apiclient.PointDeleted, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeletePoint"); err != nil {
		return nil, err
	}
	out := &apiclient.PointDeleted{Message: "point deleted"}
	delete(f.points, id)
	for cid, c := range f.conns {
		if c.Touches(id) {
			delete(f.conns, cid)
			out.RemovedConnections++
		}
	}
	for nid, n := range f.notes {
		if n.BelongsToPoint(id) {
			delete(f.notes, nid)
			out.RemovedNotes++
		}
	}
	return out, nil
}

func (f *fakeAPI) ListConnections(context.Context) ([]dto.ConnectionView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListConnections"); err != nil {
		return nil, err
	}
	out := make([]dto.ConnectionView, 0, len(f.conns))
	for _, c := range f.conns {
		out = append(out, dto.ConnectionView{ID: c.ID, From: f.points[c.From], To: f.points[c.To]})
	}
	return out, nil
}

func (f *fakeAPI) CreateConnection(_ context.Context, from, to string) (*dto.ConnectionView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateConnection"); err != nil {
		return nil, err
	}
	c := &entities.Connection{ID: f.nextID("c"), From: from, To: to}
	f.conns[c.ID] = c
	return &dto.ConnectionView{ID: c.ID, From: f.points[from], To: f.points[to]}, nil
}

func (f *fakeAPI) DeleteConnection(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteConnection"); err != nil {
		return err
	}
	delete(f.conns, id)
	return nil
}

func (f *fakeAPI) ListNotes(context.Context) ([]dto.NoteView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListNotes"); err != nil {
		return nil, err
	}
	lookup := dto.NewLookup(nil, nil, f.tags)
	for _, p := range f.points {
		lookup.Points[p.ID] = p
	}
	for _, c := range f.conns {
		lookup.Connections[c.ID] = c
	}
	out := make([]dto.NoteView, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, lookup.ResolveNote(n))
	}
	return out, nil
}

func (f *fakeAPI) CreateNote(_ context.Context, cmd commands.CreateNoteCommand) (*dto.NoteView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateNote"); err != nil {
		return nil, err
	}
	n := cmd.Note()
	n.ID = f.nextID("n")
	f.notes[n.ID] = n
	view := dto.NoteView{ID: n.ID, Text: n.Text, Image: n.Image, Tags: []*entities.Tag{}}
	if n.PointID != "" {
		view.PointID = &entities.Point{ID: n.PointID}
	}
	if n.ConnectionID != "" {
		view.ConnectionID = &entities.Connection{ID: n.ConnectionID}
	}
	return &view, nil
}

func (f *fakeAPI) UpdateNote(_ context.Context, id string, cmd commands.UpdateNoteCommand) (*entities.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateNote"); err != nil {
		return nil, err
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, &apiclient.Error{Status: 404, Type: "NOT_FOUND", Message: "note not found"}
	}
	cmd.Apply(n)
	return n.Clone(), nil
}

func (f *fakeAPI) DeleteNote(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteNote"); err != nil {
		return err
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeAPI) ListTags(context.Context) ([]*entities.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListTags"); err != nil {
		return nil, err
	}
	return append([]*entities.Tag{}, f.tags...), nil
}

func (f *fakeAPI) CreateTag(_ context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateTag"); err != nil {
		return nil, err
	}
	t := cmd.Tag()
	t.ID = f.nextID("t")
	f.tags = append(f.tags, t)
	return t.Clone(), nil
}

func (f *fakeAPI) failing(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = true
}

func (f *fakeAPI) failingAfter(method string, successes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = true
	f.allow[method] = successes
}

func (f *fakeAPI) pointCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points)
}

func (f *fakeAPI) noteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notes)
}

func (f *fakeAPI) connectionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func newTestBoard(t *testing.T, names ...string) (*Board, *fakeAPI, []*entities.Point) {
	t.Helper()
	api := newFakeAPI()
	b := New(api, zap.NewNop())
	var points []*entities.Point
	for _, name := range names {
		p, err := b.AddPoint(context.Background(), commands.CreatePointCommand{Type: entities.PointTypePerson, Name: name})
		require.NoError(t, err)
		points = append(points, p)
	}
	return b, api, points
}

func TestBoard_NormalModeTogglesConnection(t *testing.T) {
	ctx := context.Background()
	b, api, pts := newTestBoard(t, "Alice", "Bob")
	alice, bob := pts[0].ID, pts[1].ID

	out, err := b.ClickPoint(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSelected, out)
	assert.Equal(t, Pending(alice), b.Selection())

	out, err = b.ClickPoint(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConnected, out)
	assert.Equal(t, Idle(), b.Selection())
	require.Len(t, b.Connections(), 1)
	assert.Equal(t, 1, api.connectionCount())

	_, err = b.ClickPoint(ctx, alice)
	require.NoError(t, err)
	out, err = b.ClickPoint(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDisconnected, out)
	assert.Empty(t, b.Connections())
	assert.Equal(t, 0, api.connectionCount())
}

func TestBoard_ConnectionToggleIsSymmetric(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice", "Bob")
	alice, bob := pts[0].ID, pts[1].ID

	for _, id := range []string{alice, bob} {
		_, err := b.ClickPoint(ctx, id)
		require.NoError(t, err)
	}
	require.Len(t, b.Connections(), 1)

	// reversed order finds the same connection
	_, err := b.ClickPoint(ctx, bob)
	require.NoError(t, err)
	out, err := b.ClickPoint(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDisconnected, out)
	assert.Empty(t, b.Connections())
}

func TestBoard_ClickingPendingPointClears(t *testing.T) {
	ctx := context.Background()
	b, api, pts := newTestBoard(t, "Alice")

	_, err := b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)
	out, err := b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCleared, out)
	assert.Equal(t, Idle(), b.Selection())
	assert.NotContains(t, api.calls, "CreateConnection")
}

func TestBoard_SetModeResetsSelection(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice")

	_, err := b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)
	b.SetMode(ModeDelete)

	assert.Equal(t, ModeDelete, b.Mode())
	assert.Equal(t, Idle(), b.Selection())
}

func TestBoard_DeleteModeCascades(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice", "Bob", "Carol")
	alice, bob, carol := pts[0].ID, pts[1].ID, pts[2].ID

	for _, pair := range [][2]string{{alice, bob}, {bob, carol}} {
		_, err := b.ClickPoint(ctx, pair[0])
		require.NoError(t, err)
		_, err = b.ClickPoint(ctx, pair[1])
		require.NoError(t, err)
	}
	b.SetMode(ModeIntelligence)
	_, err := b.ClickPoint(ctx, alice)
	require.NoError(t, err)
	_, err = b.EditNote(ctx, "met at school")
	require.NoError(t, err)
	_, err = b.ClickPoint(ctx, bob)
	require.NoError(t, err)
	_, err = b.EditNote(ctx, "neighbour")
	require.NoError(t, err)

	b.SetMode(ModeDelete)
	out, err := b.ClickPoint(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, out)

	assert.Nil(t, b.Point(alice))
	assert.NotNil(t, b.Point(bob))
	require.Len(t, b.Connections(), 1)
	assert.True(t, b.Connections()[0].Links(bob, carol))
	require.Len(t, b.Notes(), 1)
	assert.Equal(t, bob, b.Notes()[0].PointID)
}

func TestBoard_DeleteModeConnectionRemovesItsNote(t *testing.T) {
	ctx := context.Background()
	b, api, pts := newTestBoard(t, "Alice", "Bob")

	_, err := b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)
	_, err = b.ClickPoint(ctx, pts[1].ID)
	require.NoError(t, err)
	connID := b.Connections()[0].ID

	b.SetMode(ModeIntelligence)
	out, err := b.ClickConnection(ctx, connID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEditing, out)
	_, err = b.EditNote(ctx, "siblings")
	require.NoError(t, err)

	b.SetMode(ModeDelete)
	out, err = b.ClickConnection(ctx, connID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, out)

	assert.Empty(t, b.Connections())
	assert.Empty(t, b.Notes())
	assert.Len(t, b.Points(), 2)
	assert.Contains(t, api.calls, "DeleteNote")
}

func TestBoard_NormalModeIgnoresConnectionClick(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice", "Bob")
	_, err := b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)
	_, err = b.ClickPoint(ctx, pts[1].ID)
	require.NoError(t, err)

	out, err := b.ClickConnection(ctx, b.Connections()[0].ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, out)

	_, err = b.ClickConnection(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownConnection)
}

func TestBoard_EditNoteCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	b, api, pts := newTestBoard(t, "Alice")

	_, err := b.EditNote(ctx, "orphan")
	assert.ErrorIs(t, err, ErrNotEditing)

	b.SetMode(ModeIntelligence)
	_, err = b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)

	first, err := b.EditNote(ctx, "h")
	require.NoError(t, err)
	second, err := b.EditNote(ctx, "hi")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "hi", b.NoteFor(Target{Kind: TargetPoint, ID: pts[0].ID}).Text)
	assert.Len(t, b.Notes(), 1)
	assert.Equal(t, []string{"CreatePoint", "CreateNote", "UpdateNote"}, api.calls)
}

func TestBoard_FailedCommandRestoresSnapshot(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		act    func(b *Board, pts []*entities.Point) error
	}{
		{
			name:   "connect",
			method: "CreateConnection",
			act: func(b *Board, pts []*entities.Point) error {
				_, _ = b.ClickPoint(ctx, pts[0].ID)
				_, err := b.ClickPoint(ctx, pts[1].ID)
				return err
			},
		},
		{
			name:   "cascade delete",
			method: "DeletePoint",
			act: func(b *Board, pts []*entities.Point) error {
				b.SetMode(ModeDelete)
				_, err := b.ClickPoint(ctx, pts[0].ID)
				return err
			},
		},
		{
			name:   "drag",
			method: "UpdatePoint",
			act: func(b *Board, pts []*entities.Point) error {
				require.NoError(t, b.BeginDrag(pts[0].ID))
				return b.DragTo(ctx, 50, 60)
			},
		},
		{
			name:   "apply tag",
			method: "UpdatePoint",
			act: func(b *Board, pts []*entities.Point) error {
				return b.ApplyTag(ctx, "t-friends", pts[0].ID, pts[1].ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			b, api, pts := newTestBoard(t, "Alice", "Bob")
			before := b.Points()
			beforeConns := b.Connections()
			api.failing(tt.method)

			// Act
			err := tt.act(b, pts)

			// Assert
			require.ErrorIs(t, err, errServer)
			assert.Equal(t, before, b.Points())
			assert.Equal(t, beforeConns, b.Connections())
		})
	}
}

func TestBoard_PartialFailureKeepsCompletedCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("connection delete with failing note delete", func(t *testing.T) {
		// Arrange
		b, api, pts := newTestBoard(t, "Alice", "Bob")
		_, err := b.ClickPoint(ctx, pts[0].ID)
		require.NoError(t, err)
		_, err = b.ClickPoint(ctx, pts[1].ID)
		require.NoError(t, err)
		connID := b.Connections()[0].ID
		b.SetMode(ModeIntelligence)
		_, err = b.ClickConnection(ctx, connID)
		require.NoError(t, err)
		_, err = b.EditNote(ctx, "siblings")
		require.NoError(t, err)
		api.failing("DeleteNote")

		// Act
		b.SetMode(ModeDelete)
		out, err := b.ClickConnection(ctx, connID)

		// Assert
		require.ErrorIs(t, err, errServer)
		assert.Equal(t, OutcomeDeleted, out)
		assert.Empty(t, b.Connections())
		assert.Equal(t, 0, api.connectionCount())
		assert.Len(t, b.Notes(), api.noteCount())
		assert.Equal(t, Idle(), b.Selection())
	})

	t.Run("add person with failing second connection", func(t *testing.T) {
		// Arrange
		b, api, pts := newTestBoard(t, "Alice", "Bob")
		api.failingAfter("CreateConnection", 1)

		// Act
		p, err := b.AddPersonWithConnections(ctx, "Carol", pts[0].ID, pts[1].ID)

		// Assert
		require.ErrorIs(t, err, errServer)
		require.NotNil(t, p)
		assert.Equal(t, "Carol", p.Name)
		assert.Len(t, b.Points(), api.pointCount())
		assert.Len(t, b.Connections(), api.connectionCount())
		require.Len(t, b.Connections(), 1)
		assert.True(t, b.Connections()[0].Touches(p.ID))
	})

	t.Run("apply tag with failing second update", func(t *testing.T) {
		// Arrange
		b, api, pts := newTestBoard(t, "Alice", "Bob")
		tag, err := b.CreateTag(ctx, "family", "#ff0000")
		require.NoError(t, err)
		api.failingAfter("UpdatePoint", 1)

		// Act
		err = b.ApplyTag(ctx, tag.ID, pts[0].ID, pts[1].ID)

		// Assert
		require.ErrorIs(t, err, errServer)
		assert.Equal(t, []string{tag.ID}, b.Point(pts[0].ID).Tags)
		assert.Empty(t, b.Point(pts[1].ID).Tags)
		assert.Equal(t, []string{tag.ID}, api.points[pts[0].ID].Tags)
		assert.Empty(t, api.points[pts[1].ID].Tags)
	})
}

func TestBoard_FailedConnectKeepsPendingSelection(t *testing.T) {
	ctx := context.Background()
	b, api, pts := newTestBoard(t, "Alice", "Bob")
	api.failing("CreateConnection")

	_, err := b.ClickPoint(ctx, pts[0].ID)
	require.NoError(t, err)
	_, err = b.ClickPoint(ctx, pts[1].ID)
	require.Error(t, err)

	assert.Equal(t, Pending(pts[0].ID), b.Selection())
}

func TestBoard_DragSuppressesFollowingClick(t *testing.T) {
	ctx := context.Background()

	t.Run("moved drag swallows the click", func(t *testing.T) {
		b, _, pts := newTestBoard(t, "Alice")
		id := pts[0].ID

		require.NoError(t, b.BeginDrag(id))
		require.NoError(t, b.DragTo(ctx, 40, 40))
		assert.True(t, b.EndDrag())

		out, err := b.ClickPoint(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuppressed, out)
		assert.Equal(t, Idle(), b.Selection())
		assert.Equal(t, 40.0, b.Point(id).X)

		// only the first click is swallowed
		out, err = b.ClickPoint(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSelected, out)
	})

	t.Run("zero movement drag is a click", func(t *testing.T) {
		b, api, pts := newTestBoard(t, "Alice")
		id := pts[0].ID

		require.NoError(t, b.BeginDrag(id))
		require.NoError(t, b.DragTo(ctx, 0, 0))
		assert.False(t, b.EndDrag())

		out, err := b.ClickPoint(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSelected, out)
		assert.NotContains(t, api.calls, "UpdatePoint")
	})

	t.Run("drag without begin", func(t *testing.T) {
		b, _, _ := newTestBoard(t)
		assert.ErrorIs(t, b.DragTo(ctx, 1, 1), ErrNotDragging)
		assert.ErrorIs(t, b.BeginDrag("missing"), ErrUnknownPoint)
	})
}

func TestBoard_ApplyTagAppendsOnce(t *testing.T) {
	ctx := context.Background()
	b, api, pts := newTestBoard(t, "Alice", "Bob")

	tag, err := b.CreateTag(ctx, "family", "#ff0000")
	require.NoError(t, err)

	require.NoError(t, b.ApplyTag(ctx, tag.ID, pts[0].ID))
	require.NoError(t, b.ApplyTag(ctx, tag.ID, pts[0].ID, pts[1].ID))

	assert.Equal(t, []string{tag.ID}, b.Point(pts[0].ID).Tags)
	assert.Equal(t, []string{tag.ID}, b.Point(pts[1].ID).Tags)

	updates := 0
	for _, c := range api.calls {
		if c == "UpdatePoint" {
			updates++
		}
	}
	assert.Equal(t, 2, updates)
}

func TestBoard_AddPersonWithConnections(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice", "Bob")

	p, err := b.AddPersonWithConnections(ctx, "Carol", pts[0].ID, pts[1].ID)
	require.NoError(t, err)

	assert.Equal(t, entities.PointTypePerson, p.Type)
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, 100.0, p.Y)
	require.Len(t, b.Connections(), 2)
	for _, c := range b.Connections() {
		assert.True(t, c.Touches(p.ID))
	}

	_, err = b.AddPersonWithConnections(ctx, "Dan", "missing")
	assert.ErrorIs(t, err, ErrUnknownPoint)
}

func TestBoard_EnsurePointSkipsExisting(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice")

	p, created, err := b.EnsurePoint(ctx, "Alice", entities.PointTypePerson, 5, 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, pts[0].ID, p.ID)

	p, created, err = b.EnsurePoint(ctx, "Paris", entities.PointTypeGroup, 5, 5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Paris", p.Name)
	assert.Len(t, b.Points(), 2)
}

func TestBoard_SearchIntersectsNameAndTag(t *testing.T) {
	ctx := context.Background()
	b, _, pts := newTestBoard(t, "Alice", "alina", "Bob")
	tag, err := b.CreateTag(ctx, "work", "")
	require.NoError(t, err)
	require.NoError(t, b.ApplyTag(ctx, tag.ID, pts[1].ID, pts[2].ID))

	tests := []struct {
		name  string
		query string
		tagID string
		want  []string
	}{
		{name: "everything", want: []string{"Alice", "alina", "Bob"}},
		{name: "case insensitive substring", query: "AL", want: []string{"Alice", "alina"}},
		{name: "tag only", tagID: tag.ID, want: []string{"alina", "Bob"}},
		{name: "intersection", query: "al", tagID: tag.ID, want: []string{"alina"}},
		{name: "no match", query: "zed", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, 0)
			for _, p := range b.Search(tt.query, tt.tagID) {
				got = append(got, p.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage_TwentyPerPage(t *testing.T) {
	points := make([]*entities.Point, 45)
	for i := range points {
		points[i] = &entities.Point{ID: fmt.Sprintf("p%d", i)}
	}

	first := Page(points, 1)
	assert.Len(t, first.Points, 20)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasNext)

	last := Page(points, 3)
	assert.Len(t, last.Points, 5)
	assert.Equal(t, "p40", last.Points[0].ID)
	assert.False(t, last.HasNext)

	assert.Empty(t, Page(points, 4).Points)
	assert.Equal(t, 1, Page(points, 0).Page)
}

func TestBoard_LoadDropsDanglingConnections(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.points["p1"] = &entities.Point{ID: "p1", Name: "Alice", Tags: []string{}}
	api.points["p2"] = &entities.Point{ID: "p2", Name: "Bob", Tags: []string{}}
	api.seq = 2
	api.conns["c1"] = &entities.Connection{ID: "c1", From: "p1", To: "p2"}
	api.conns["c2"] = &entities.Connection{ID: "c2", From: "p1", To: "gone"}
	api.notes["n1"] = &entities.Note{ID: "n1", PointID: "p1", Text: "hello", Tags: []string{}}

	b := New(api, nil)
	require.NoError(t, b.Load(ctx))

	assert.Len(t, b.Points(), 2)
	require.Len(t, b.Connections(), 1)
	assert.Equal(t, "c1", b.Connections()[0].ID)
	require.Len(t, b.Notes(), 1)
	assert.Equal(t, "p1", b.Notes()[0].PointID)
}

type mockAPI struct {
	mock.Mock
	API
}

func (m *mockAPI) ListPoints(ctx context.Context) ([]*entities.Point, error) {
	args := m.Called(ctx)
	pts, _ := args.Get(0).([]*entities.Point)
	return pts, args.Error(1)
}

func (m *mockAPI) ListConnections(ctx context.Context) ([]dto.ConnectionView, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *mockAPI) ListNotes(ctx context.Context) ([]dto.NoteView, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *mockAPI) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func TestBoard_LoadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	m := &mockAPI{}
	m.On("ListPoints", mock.Anything).Return([]*entities.Point{{ID: "p1"}}, nil)
	m.On("ListConnections", mock.Anything).Return(nil, errServer)
	m.On("ListNotes", mock.Anything).Return(nil, nil)
	m.On("ListTags", mock.Anything).Return(nil, nil)

	b := New(m, zap.NewNop())
	err := b.Load(ctx)

	require.ErrorIs(t, err, errServer)
	assert.Empty(t, b.Points())
}

func TestBoard_GettersReturnCopies(t *testing.T) {
	b, _, pts := newTestBoard(t, "Alice")

	got := b.Points()
	got[0].Name = "changed"
	got[0].Tags = append(got[0].Tags, "x")

	assert.Equal(t, "Alice", b.Point(pts[0].ID).Name)
	assert.Empty(t, b.Point(pts[0].ID).Tags)
}
