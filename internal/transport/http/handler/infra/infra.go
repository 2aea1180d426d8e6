package infra

import (
	"time"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	StartTime time.Time

	// UpstreamConfigured reports whether the relay has a credential to call upstream with
	UpstreamConfigured bool
}

// New creates a new instance of infrastructure handlers.
func New(startTime time.Time, upstreamConfigured bool) *Handlers {
	return &Handlers{
		StartTime:          startTime,
		UpstreamConfigured: upstreamConfigured,
	}
}
