package entities

import (
	"relationmap/domain/core/valueobjects"
)

// Point types offered by the client. The field is an open string.
const (
	PointTypePerson = "person"
	PointTypeGroup  = "group"
)

// Point is a node of the relationship graph: a person, a group or anything
// else the user chose to name.
type Point struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Position returns the point's canvas position
func (p *Point) Position() valueobjects.Position {
	pos, _ := valueobjects.NewPosition(p.X, p.Y)
	return pos
}

// MoveTo places the point at pos
func (p *Point) MoveTo(pos valueobjects.Position) {
	p.X = pos.X()
	p.Y = pos.Y()
}

// HasTag reports whether tagID is attached to the point
func (p *Point) HasTag(tagID string) bool {
	for _, t := range p.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}

// AddTag attaches tagID unless it is already present. It reports whether the
// tag list changed.
func (p *Point) AddTag(tagID string) bool {
	if p.HasTag(tagID) {
		return false
	}
	p.Tags = append(p.Tags, tagID)
	return true
}

// Normalize replaces nil collections with empty ones so the point always
// serializes with a tags array.
func (p *Point) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// Clone returns a deep copy of the point
func (p *Point) Clone() *Point {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	return &c
}
