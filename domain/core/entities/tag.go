package entities

// Tag is a named, colored label attachable to Points and Notes
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Clone returns a copy of the tag
func (t *Tag) Clone() *Tag {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
