// Package dto holds the response shapes that resolve record references
// inline.
package dto

import "relationmap/domain/core/entities"

// ConnectionView is a connection with both endpoints resolved. An endpoint
// that no longer exists resolves to null.
type ConnectionView struct {
	ID   string          `json:"id"`
	From *entities.Point `json:"from"`
	To   *entities.Point `json:"to"`
}

// Connection flattens the view back to a connection record
func (v ConnectionView) Connection() *entities.Connection {
	c := &entities.Connection{ID: v.ID}
	if v.From != nil {
		c.From = v.From.ID
	}
	if v.To != nil {
		c.To = v.To.ID
	}
	return c
}

// NoteView is a note with its owner and tags resolved. Tags that no longer
// exist are left out.
type NoteView struct {
	ID           string               `json:"id"`
	PointID      *entities.Point      `json:"pointId"`
	ConnectionID *entities.Connection `json:"connectionId"`
	Text         string               `json:"text"`
	Image        string               `json:"image"`
	Tags         []*entities.Tag      `json:"tags"`
}

// Note flattens the view back to a note record
func (v NoteView) Note() *entities.Note {
	n := &entities.Note{ID: v.ID, Text: v.Text, Image: v.Image, Tags: make([]string, 0, len(v.Tags))}
	if v.PointID != nil {
		n.PointID = v.PointID.ID
	}
	if v.ConnectionID != nil {
		n.ConnectionID = v.ConnectionID.ID
	}
	for _, t := range v.Tags {
		n.Tags = append(n.Tags, t.ID)
	}
	return n
}

// Lookup indexes records by id for resolving references
type Lookup struct {
	Points      map[string]*entities.Point
	Connections map[string]*entities.Connection
	Tags        map[string]*entities.Tag
}

// NewLookup indexes the given records
func NewLookup(points []*entities.Point, conns []*entities.Connection, tags []*entities.Tag) Lookup {
	l := Lookup{
		Points:      make(map[string]*entities.Point, len(points)),
		Connections: make(map[string]*entities.Connection, len(conns)),
		Tags:        make(map[string]*entities.Tag, len(tags)),
	}
	for _, p := range points {
		l.Points[p.ID] = p
	}
	for _, c := range conns {
		l.Connections[c.ID] = c
	}
	for _, t := range tags {
		l.Tags[t.ID] = t
	}
	return l
}

// ResolveConnection builds the view of c
func (l Lookup) ResolveConnection(c *entities.Connection) ConnectionView {
	return ConnectionView{ID: c.ID, From: l.Points[c.From], To: l.Points[c.To]}
}

// ResolveNote builds the view of n
func (l Lookup) ResolveNote(n *entities.Note) NoteView {
	v := NoteView{
		ID:    n.ID,
		Text:  n.Text,
		Image: n.Image,
		Tags:  make([]*entities.Tag, 0, len(n.Tags)),
	}
	if n.PointID != "" {
		v.PointID = l.Points[n.PointID]
	}
	if n.ConnectionID != "" {
		v.ConnectionID = l.Connections[n.ConnectionID]
	}
	for _, id := range n.Tags {
		if t, ok := l.Tags[id]; ok {
			v.Tags = append(v.Tags, t)
		}
	}
	return v
}
