// Package persistence groups the repository ports a storage driver provides.
package persistence

import "relationmap/application/ports"

// Repositories bundles the four record repositories of one storage driver
type Repositories struct {
	Points      ports.PointRepository
	Connections ports.ConnectionRepository
	Notes       ports.NoteRepository
	Tags        ports.TagRepository
}
