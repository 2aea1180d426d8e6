package relay

import (
	"time"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// tokenEstimateTimeout is the longest the relay waits, after the upstream
// call returns, for the prompt-token estimate.
const tokenEstimateTimeout = 100 * time.Millisecond

// promptEstimate is a prompt-token count computed alongside the upstream call.
type promptEstimate struct {
	ch <-chan int
}

// estimatePromptTokens starts counting in the background so the upstream
// call is not delayed. Returns an empty estimate when no tokenizer is set.
func (h *Handler) estimatePromptTokens(req *types.CompletionRequest) promptEstimate {
	if h.tokenizer == nil {
		return promptEstimate{}
	}

	ch := make(chan int, 1)
	go func() {
		defer close(ch)
		if tokens, err := h.tokenizer.CountRequest(req); err == nil {
			ch <- tokens
		}
	}()
	return promptEstimate{ch: ch}
}

// wait returns the estimate, or 0 if counting failed or is still running
// after tokenEstimateTimeout.
func (e promptEstimate) wait() int {
	if e.ch == nil {
		return 0
	}

	timer := time.NewTimer(tokenEstimateTimeout)
	defer timer.Stop()

	select {
	case tokens, ok := <-e.ch:
		if ok {
			return tokens
		}
		return 0
	case <-timer.C:
		return 0
	}
}
