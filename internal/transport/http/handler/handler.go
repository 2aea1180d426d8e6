package handler

import (
	"time"

	"github.com/mandalnilabja/chatrelay/internal/relay"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/infra"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Relay *relay.Handler
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(opts relay.Options) *Repo {
	startTime := time.Now()
	return &Repo{
		Relay: relay.New(opts),
		Infra: infra.New(startTime, opts.Credential != ""),
	}
}
