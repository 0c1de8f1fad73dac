package commands

import (
	"relationmap/domain/core/entities"
	"relationmap/domain/core/valueobjects"
	"relationmap/pkg/utils"
)

// CreatePointCommand carries the fields of a new point
type CreatePointCommand struct {
	Type string   `json:"type" validate:"max=64"`
	X    float64  `json:"x" validate:"finite"`
	Y    float64  `json:"y" validate:"finite"`
	Name string   `json:"name" validate:"max=512"`
	Tags []string `json:"tags"`
}

// Validate checks the command
func (c CreatePointCommand) Validate() error {
	return firstError(utils.ValidateStruct(c), validateTagIDs(c.Tags))
}

// Point builds the entity to store
func (c CreatePointCommand) Point() *entities.Point {
	p := &entities.Point{
		Type: c.Type,
		X:    c.X,
		Y:    c.Y,
		Name: c.Name,
		Tags: append([]string{}, c.Tags...),
	}
	p.Normalize()
	return p
}

// UpdatePointCommand carries a partial point. Nil fields are left untouched.
// Tags replace the stored list as given.
type UpdatePointCommand struct {
	PointID string    `json:"-"`
	Type    *string   `json:"type,omitempty"`
	X       *float64  `json:"x,omitempty" validate:"omitempty,finite"`
	Y       *float64  `json:"y,omitempty" validate:"omitempty,finite"`
	Name    *string   `json:"name,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Validate checks the command
func (c UpdatePointCommand) Validate() error {
	var tagErr error
	if c.Tags != nil {
		tagErr = validateTagIDs(*c.Tags)
	}
	return firstError(
		ValidateID("point", c.PointID),
		utils.ValidateStruct(c),
		validateLength("type", c.Type, maxTypeLength),
		validateLength("name", c.Name, maxNameLength),
		tagErr,
	)
}

// Apply merges the provided fields into p and returns the names of the
// fields it touched
func (c UpdatePointCommand) Apply(p *entities.Point) []string {
	var fields []string
	if c.Type != nil {
		p.Type = *c.Type
		fields = append(fields, "type")
	}
	if c.X != nil || c.Y != nil {
		x, y := p.X, p.Y
		if c.X != nil {
			x = *c.X
		}
		if c.Y != nil {
			y = *c.Y
		}
		if pos, err := valueobjects.NewPosition(x, y); err == nil {
			p.MoveTo(pos)
			fields = append(fields, "position")
		}
	}
	if c.Name != nil {
		p.Name = *c.Name
		fields = append(fields, "name")
	}
	if c.Tags != nil {
		p.Tags = append([]string{}, (*c.Tags)...)
		fields = append(fields, "tags")
	}
	p.Normalize()
	return fields
}
