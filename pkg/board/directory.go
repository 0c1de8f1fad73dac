package board

import (
	"context"
	"fmt"
	"strings"

	"relationmap/application/commands"
	"relationmap/domain/core/entities"
	"relationmap/pkg/common"
)

// New people added from the directory land here
const (
	newPersonX = 100
	newPersonY = 100
)

// AddPoint creates a point
func (b *Board) AddPoint(ctx context.Context, cmd commands.CreatePointCommand) (*entities.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addPoint(ctx, cmd)
}

func (b *Board) addPoint(ctx context.Context, cmd commands.CreatePointCommand) (*entities.Point, error) {
	var created *entities.Point
	err := b.run(ctx, "add point", nil, func(ctx context.Context) error {
		p, err := b.api.CreatePoint(ctx, cmd)
		if err != nil {
			return err
		}
		p.Normalize()
		b.graph.points = append(b.graph.points, p)
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// EnsurePoint creates a point named name unless one already exists. created
// is false when the existing point is returned.
func (b *Board) EnsurePoint(ctx context.Context, name, pointType string, x, y float64) (point *entities.Point, created bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.graph.points {
		if p.Name == name {
			return p.Clone(), false, nil
		}
	}
	point, err = b.addPoint(ctx, commands.CreatePointCommand{Type: pointType, X: x, Y: y, Name: name})
	if err != nil {
		return nil, false, err
	}
	return point, true, nil
}

// AddPersonWithConnections creates a person point and connects it to every
// point in connectTo. Each server call is its own command: a failed
// connection leaves the person and any earlier connections in place, and the
// person is returned alongside the error.
func (b *Board) AddPersonWithConnections(ctx context.Context, name string, connectTo ...string) (*entities.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range connectTo {
		if b.findPoint(id) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPoint, id)
		}
	}

	var created *entities.Point
	err := b.run(ctx, "add person", nil, func(ctx context.Context) error {
		p, err := b.api.CreatePoint(ctx, commands.CreatePointCommand{
			Type: entities.PointTypePerson,
			X:    newPersonX,
			Y:    newPersonY,
			Name: name,
		})
		if err != nil {
			return err
		}
		p.Normalize()
		b.graph.points = append(b.graph.points, p)
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range connectTo {
		err := b.run(ctx, "connect new person", nil, func(ctx context.Context) error {
			view, err := b.api.CreateConnection(ctx, created.ID, id)
			if err != nil {
				return err
			}
			b.graph.connections = append(b.graph.connections, view.Connection())
			return nil
		})
		if err != nil {
			return created.Clone(), err
		}
	}
	return created.Clone(), nil
}

// CreateTag creates a tag
func (b *Board) CreateTag(ctx context.Context, name, color string) (*entities.Tag, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var created *entities.Tag
	err := b.run(ctx, "create tag", nil, func(ctx context.Context) error {
		t, err := b.api.CreateTag(ctx, commands.CreateTagCommand{Name: name, Color: color})
		if err != nil {
			return err
		}
		b.graph.tags = append(b.graph.tags, t)
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// ApplyTag attaches tagID to each point that does not carry it yet. Points
// that already have it are left alone. Each point is saved as its own
// command, so points tagged before a failure keep the tag.
func (b *Board) ApplyTag(ctx context.Context, tagID string, pointIDs ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var targets []string
	for _, id := range pointIDs {
		p := b.findPoint(id)
		if p == nil {
			return fmt.Errorf("%w: %s", ErrUnknownPoint, id)
		}
		if !p.HasTag(tagID) {
			targets = append(targets, id)
		}
	}

	for _, id := range targets {
		var tags []string
		err := b.run(ctx, "apply tag",
			func() {
				p := b.findPoint(id)
				p.AddTag(tagID)
				tags = append([]string{}, p.Tags...)
			},
			func(ctx context.Context) error {
				saved, err := b.api.UpdatePoint(ctx, id, commands.UpdatePointCommand{Tags: &tags})
				if err != nil {
					return err
				}
				saved.Normalize()
				b.replacePoint(saved)
				return nil
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Search returns copies of the points whose name contains query, ignoring
// case, and that carry tagID. An empty query or tagID matches everything.
func (b *Board) Search(query, tagID string) []*entities.Point {
	b.mu.Lock()
	defer b.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*entities.Point, 0, len(b.graph.points))
	for _, p := range b.graph.points {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if tagID != "" && !p.HasTag(tagID) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// DirectoryPage is one page of a point listing
type DirectoryPage struct {
	Points []*entities.Point
	common.PaginationInfo
}

// Page slices points into pages of common.DefaultPageSize. Pages are 1-based.
func Page(points []*entities.Point, page int) DirectoryPage {
	if page < 1 {
		page = 1
	}
	params := common.PaginationParams{Page: page, PageSize: common.DefaultPageSize}
	return DirectoryPage{
		Points:         common.Paginate(points, params),
		PaginationInfo: common.BuildPaginationMeta(page, params.PageSize, len(points)),
	}
}
