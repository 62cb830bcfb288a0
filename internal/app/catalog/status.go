// Package catalog keeps the episode listing fetched from the episodes API.
package catalog

// Status represents the load status of the catalog.
type Status int

const (
	StatusLoading Status = iota // First fetch has not finished
	StatusReady                 // Last fetch succeeded
	StatusFailed                // Last fetch failed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
