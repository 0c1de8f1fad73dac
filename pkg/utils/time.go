package utils

import "time"

// NowSortable returns the current UTC time with nanosecond precision in a
// form that sorts lexically in creation order
func NowSortable() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z")
}
