package entities

// Connection is an undirected edge between two Points. From and To only record
// the order in which the user picked the endpoints.
type Connection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Touches reports whether pointID is one of the connection's endpoints
func (c *Connection) Touches(pointID string) bool {
	return c.From == pointID || c.To == pointID
}

// Links reports whether the connection joins a and b in either direction
func (c *Connection) Links(a, b string) bool {
	return (c.From == a && c.To == b) || (c.From == b && c.To == a)
}

// Clone returns a copy of the connection
func (c *Connection) Clone() *Connection {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
