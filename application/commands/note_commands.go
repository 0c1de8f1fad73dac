package commands

import (
	"relationmap/domain/core/entities"
)

// CreateNoteCommand carries the fields of a new note
type CreateNoteCommand struct {
	PointID      string   `json:"pointId"`
	ConnectionID string   `json:"connectionId"`
	Text         string   `json:"text"`
	Image        string   `json:"image"`
	Tags         []string `json:"tags"`
}

// Validate checks the command
func (c CreateNoteCommand) Validate() error {
	return firstError(
		validateRef("pointId", c.PointID),
		validateRef("connectionId", c.ConnectionID),
		validateLength("text", &c.Text, maxTextLength),
		validateLength("image", &c.Image, maxImageLength),
		validateTagIDs(c.Tags),
	)
}

// Note builds the entity to store
func (c CreateNoteCommand) Note() *entities.Note {
	n := &entities.Note{
		PointID:      c.PointID,
		ConnectionID: c.ConnectionID,
		Text:         c.Text,
		Image:        c.Image,
		Tags:         append([]string{}, c.Tags...),
	}
	n.Normalize()
	return n
}

// UpdateNoteCommand carries a partial note. Nil fields are left untouched.
type UpdateNoteCommand struct {
	NoteID       string    `json:"-"`
	PointID      *string   `json:"pointId,omitempty"`
	ConnectionID *string   `json:"connectionId,omitempty"`
	Text         *string   `json:"text,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
}

// Validate checks the command
func (c UpdateNoteCommand) Validate() error {
	var tagErr error
	if c.Tags != nil {
		tagErr = validateTagIDs(*c.Tags)
	}
	return firstError(
		ValidateID("note", c.NoteID),
		validateOptionalRef("pointId", c.PointID),
		validateOptionalRef("connectionId", c.ConnectionID),
		validateLength("text", c.Text, maxTextLength),
		validateLength("image", c.Image, maxImageLength),
		tagErr,
	)
}

// RequestedTags returns the tags carried by the update, nil when absent
func (c UpdateNoteCommand) RequestedTags() []string {
	if c.Tags == nil {
		return nil
	}
	return *c.Tags
}

// Apply merges the provided fields into n and returns the names of the
// fields it touched
func (c UpdateNoteCommand) Apply(n *entities.Note) []string {
	var fields []string
	if c.PointID != nil {
		n.PointID = *c.PointID
		fields = append(fields, "pointId")
	}
	if c.ConnectionID != nil {
		n.ConnectionID = *c.ConnectionID
		fields = append(fields, "connectionId")
	}
	if c.Text != nil {
		n.Text = *c.Text
		fields = append(fields, "text")
	}
	if c.Image != nil {
		n.Image = *c.Image
		fields = append(fields, "image")
	}
	if c.Tags != nil {
		n.Tags = append([]string{}, (*c.Tags)...)
		fields = append(fields, "tags")
	}
	n.Normalize()
	return fields
}
