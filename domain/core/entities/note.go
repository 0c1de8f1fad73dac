package entities

// Note is a free-text annotation attached to one Point or one Connection.
// Storage does not enforce that exactly one owner is set.
type Note struct {
	ID           string   `json:"id"`
	PointID      string   `json:"pointId,omitempty"`
	ConnectionID string   `json:"connectionId,omitempty"`
	Text         string   `json:"text"`
	Image        string   `json:"image"`
	Tags         []string `json:"tags"`
}

// BelongsToPoint reports whether the note is attached to pointID
func (n *Note) BelongsToPoint(pointID string) bool {
	return pointID != "" && n.PointID == pointID
}

// BelongsToConnection reports whether the note is attached to connectionID
func (n *Note) BelongsToConnection(connectionID string) bool {
	return connectionID != "" && n.ConnectionID == connectionID
}

// Normalize replaces nil collections with empty ones
func (n *Note) Normalize() {
	if n.Tags == nil {
		n.Tags = []string{}
	}
}

// Clone returns a deep copy of the note
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	return &c
}
