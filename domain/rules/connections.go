package rules

import "relationmap/domain/core/entities"

// FindConnection returns the connection joining a and b in either direction,
// or nil if the two points are not linked.
func FindConnection(conns []*entities.Connection, a, b string) *entities.Connection {
	for _, c := range conns {
		if c.Links(a, b) {
			return c
		}
	}
	return nil
}

// ResolvableConnections drops connections whose endpoints are not both among
// the known points.
func ResolvableConnections(conns []*entities.Connection, points []*entities.Point) []*entities.Connection {
	known := make(map[string]struct{}, len(points))
	for _, p := range points {
		known[p.ID] = struct{}{}
	}
	out := make([]*entities.Connection, 0, len(conns))
	for _, c := range conns {
		_, fromOK := known[c.From]
		_, toOK := known[c.To]
		if fromOK && toOK {
			out = append(out, c)
		}
	}
	return out
}
