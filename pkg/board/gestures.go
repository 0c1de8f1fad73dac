package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/domain/core/entities"
	"relationmap/domain/rules"
)

// ClickPoint handles a click on a point in the active mode
func (b *Board) ClickPoint(ctx context.Context, id string) (Outcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.suppress != "" {
		swallowed := b.suppress == id
		b.suppress = ""
		if swallowed {
			return OutcomeSuppressed, nil
		}
	}
	if b.findPoint(id) == nil {
		return OutcomeNone, fmt.Errorf("%w: %s", ErrUnknownPoint, id)
	}

	switch b.mode {
	case ModeDelete:
		return b.deletePoint(ctx, id)
	case ModeIntelligence:
		b.selection = Editing(Target{Kind: TargetPoint, ID: id})
		return OutcomeEditing, nil
	default:
		return b.connectClick(ctx, id)
	}
}

// ClickConnection handles a click on a connection in the active mode. Normal
// mode ignores it.
func (b *Board) ClickConnection(ctx context.Context, id string) (Outcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findConnection(id) == nil {
		return OutcomeNone, fmt.Errorf("%w: %s", ErrUnknownConnection, id)
	}

	switch b.mode {
	case ModeDelete:
		return b.deleteConnection(ctx, id)
	case ModeIntelligence:
		b.selection = Editing(Target{Kind: TargetConnection, ID: id})
		return OutcomeEditing, nil
	default:
		return OutcomeNone, nil
	}
}

// connectClick toggles the connection between the pending point and id
func (b *Board) connectClick(ctx context.Context, id string) (Outcome, error) {
	if b.selection.Kind != SelectionPending {
		b.selection = Pending(id)
		return OutcomeSelected, nil
	}
	from := b.selection.PointID
	if from == id {
		b.selection = Idle()
		return OutcomeCleared, nil
	}

	if existing := rules.FindConnection(b.graph.connections, from, id); existing != nil {
		connID := existing.ID
		err := b.run(ctx, "disconnect",
			func() {
				b.removeConnection(connID)
				b.selection = Idle()
			},
			func(ctx context.Context) error {
				return b.api.DeleteConnection(ctx, connID)
			},
		)
		if err != nil {
			return OutcomeNone, err
		}
		b.logger.Debug("Points disconnected", zap.String("connection_id", connID))
		return OutcomeDisconnected, nil
	}

	err := b.run(ctx, "connect",
		func() { b.selection = Idle() },
		func(ctx context.Context) error {
			view, err := b.api.CreateConnection(ctx, from, id)
			if err != nil {
				return err
			}
			b.graph.connections = append(b.graph.connections, view.Connection())
			return nil
		},
	)
	if err != nil {
		return OutcomeNone, err
	}
	b.logger.Debug("Points connected", zap.String("from", from), zap.String("to", id))
	return OutcomeConnected, nil
}

func (b *Board) deletePoint(ctx context.Context, id string) (Outcome, error) {
	plan := rules.PlanPointCascade(id, b.graph.connections, b.graph.notes)
	err := b.run(ctx, "delete point",
		func() {
			b.graph.points = filter(b.graph.points, func(p *entities.Point) bool { return !plan.Includes(p.ID) })
			b.graph.connections = filter(b.graph.connections, func(c *entities.Connection) bool { return !plan.Includes(c.ID) })
			b.graph.notes = filter(b.graph.notes, func(n *entities.Note) bool { return !plan.Includes(n.ID) })
			b.selection = Idle()
		},
		func(ctx context.Context) error {
			_, err := b.api.DeletePoint(ctx, id)
			return err
		},
	)
	if err != nil {
		return OutcomeNone, err
	}
	b.logger.Debug("Point deleted",
		zap.String("point_id", id),
		zap.Int("connections", len(plan.ConnectionIDs)),
		zap.Int("notes", len(plan.NoteIDs)),
	)
	return OutcomeDeleted, nil
}

// deleteConnection removes the connection and then the note bound to it,
// each as its own command. Neither endpoint is touched. When only the note
// delete fails the connection stays removed and the outcome is still
// OutcomeDeleted alongside the error.
func (b *Board) deleteConnection(ctx context.Context, id string) (Outcome, error) {
	var noteID string
	if n := b.noteFor(Target{Kind: TargetConnection, ID: id}); n != nil {
		noteID = n.ID
	}
	err := b.run(ctx, "delete connection",
		func() {
			b.removeConnection(id)
			b.selection = Idle()
		},
		func(ctx context.Context) error {
			return b.api.DeleteConnection(ctx, id)
		},
	)
	if err != nil {
		return OutcomeNone, err
	}
	if noteID == "" {
		return OutcomeDeleted, nil
	}

	err = b.run(ctx, "delete connection note",
		func() { b.removeNote(noteID) },
		func(ctx context.Context) error {
			return b.api.DeleteNote(ctx, noteID)
		},
	)
	return OutcomeDeleted, err
}

// EditNote writes text to the note bound to the editing target, creating the
// note on first edit
func (b *Board) EditNote(ctx context.Context, text string) (*entities.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.selection.Kind != SelectionEditing {
		return nil, ErrNotEditing
	}
	target := b.selection.Target

	if existing := b.noteFor(target); existing != nil {
		id := existing.ID
		var saved *entities.Note
		err := b.run(ctx, "update note",
			func() { existing.Text = text },
			func(ctx context.Context) error {
				n, err := b.api.UpdateNote(ctx, id, commands.UpdateNoteCommand{Text: &text})
				if err != nil {
					return err
				}
				b.replaceNote(n)
				saved = n
				return nil
			},
		)
		if err != nil {
			return nil, err
		}
		return saved.Clone(), nil
	}

	cmd := commands.CreateNoteCommand{Text: text}
	if target.Kind == TargetPoint {
		cmd.PointID = target.ID
	} else {
		cmd.ConnectionID = target.ID
	}
	var saved *entities.Note
	err := b.run(ctx, "create note", nil, func(ctx context.Context) error {
		view, err := b.api.CreateNote(ctx, cmd)
		if err != nil {
			return err
		}
		saved = view.Note()
		b.graph.notes = append(b.graph.notes, saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved.Clone(), nil
}

// BeginDrag arms a drag on the point
func (b *Board) BeginDrag(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findPoint(id) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPoint, id)
	}
	b.drag = dragState{pointID: id, armed: true}
	return nil
}

// DragTo moves the dragged point and sends the new position. A move to the
// current position is ignored and does not count as movement.
func (b *Board) DragTo(ctx context.Context, x, y float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.drag.armed {
		return ErrNotDragging
	}
	p := b.findPoint(b.drag.pointID)
	if p == nil {
		b.drag = dragState{}
		return fmt.Errorf("%w: %s", ErrUnknownPoint, b.drag.pointID)
	}
	if p.X == x && p.Y == y {
		return nil
	}

	id := p.ID
	err := b.run(ctx, "move point",
		func() {
			p.X, p.Y = x, y
		},
		func(ctx context.Context) error {
			_, err := b.api.UpdatePoint(ctx, id, commands.UpdatePointCommand{X: &x, Y: &y})
			return err
		},
	)
	if err != nil {
		return err
	}
	b.drag.moved = true
	return nil
}

// EndDrag disarms the drag. It reports whether the point moved, in which case
// the click that follows on the same point is swallowed.
func (b *Board) EndDrag() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	moved := b.drag.armed && b.drag.moved
	if moved {
		b.suppress = b.drag.pointID
	}
	b.drag = dragState{}
	return moved
}
