package rules

import "relationmap/domain/core/entities"

// PointCascade lists the records that go away together with a Point
type PointCascade struct {
	PointID       string
	ConnectionIDs []string
	NoteIDs       []string
}

// PlanPointCascade computes the dependents of pointID: every connection that
// touches it and every note attached to it. Notes attached to those
// connections are not part of the cascade.
func PlanPointCascade(pointID string, conns []*entities.Connection, notes []*entities.Note) PointCascade {
	plan := PointCascade{PointID: pointID}
	for _, c := range conns {
		if c.Touches(pointID) {
			plan.ConnectionIDs = append(plan.ConnectionIDs, c.ID)
		}
	}
	for _, n := range notes {
		if n.BelongsToPoint(pointID) {
			plan.NoteIDs = append(plan.NoteIDs, n.ID)
		}
	}
	return plan
}

// Includes reports whether id is the point itself or one of its dependents
func (p PointCascade) Includes(id string) bool {
	if id == p.PointID {
		return true
	}
	for _, c := range p.ConnectionIDs {
		if c == id {
			return true
		}
	}
	for _, n := range p.NoteIDs {
		if n == id {
			return true
		}
	}
	return false
}
