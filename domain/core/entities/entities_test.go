package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_AddTag(t *testing.T) {
	p := &Point{Name: "Alice", Tags: []string{"t1"}}

	assert.True(t, p.AddTag("t2"))
	assert.False(t, p.AddTag("t1"))
	assert.False(t, p.AddTag("t2"))

	assert.Equal(t, []string{"t1", "t2"}, p.Tags)
}

func TestPoint_CloneIsIndependent(t *testing.T) {
	p := &Point{ID: "p1", Tags: []string{"t1"}}

	c := p.Clone()
	c.Tags[0] = "changed"
	c.Name = "other"

	assert.Equal(t, "t1", p.Tags[0])
	assert.Empty(t, p.Name)
}

func TestPoint_Normalize(t *testing.T) {
	p := &Point{}
	p.Normalize()
	assert.NotNil(t, p.Tags)
	assert.Len(t, p.Tags, 0)
}

func TestConnection_LinksIsUnordered(t *testing.T) {
	c := &Connection{ID: "c1", From: "a", To: "b"}

	assert.True(t, c.Links("a", "b"))
	assert.True(t, c.Links("b", "a"))
	assert.False(t, c.Links("a", "c"))
	assert.True(t, c.Touches("a"))
	assert.True(t, c.Touches("b"))
	assert.False(t, c.Touches("c"))
}

func TestNote_Ownership(t *testing.T) {
	n := &Note{ConnectionID: "c1"}

	assert.True(t, n.BelongsToConnection("c1"))
	assert.False(t, n.BelongsToPoint(""))
	assert.False(t, n.BelongsToConnection(""))
}
