// Package relay implements the chat relay: it validates a client's
// conversation, forwards it to the upstream provider with the server-held
// credential, and normalizes the answer into a ChatResponse.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/observability"
	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Options configures a Handler.
type Options struct {
	Provider provider.Provider

	// Credential is injected into every upstream call. Empty makes every
	// request fail with a configuration error.
	Credential string

	// Model sent upstream; defaults to config.DefaultModel
	Model string

	// MaxBodyBytes caps the inbound body; defaults to config.DefaultMaxBodyBytes
	MaxBodyBytes int64

	// Tokenizer, if set, produces a logged prompt-token estimate
	Tokenizer tokenizer.Tokenizer

	Logger *slog.Logger
}

// Handler is the relay HTTP handler. It holds no per-request state, so one
// Handler serves any number of concurrent requests.
type Handler struct {
	provider     provider.Provider
	credential   string
	model        string
	maxBodyBytes int64
	tokenizer    tokenizer.Tokenizer
	logger       *slog.Logger
}

// New creates a relay handler.
func New(opts Options) *Handler {
	h := &Handler{
		provider:     opts.Provider,
		credential:   opts.Credential,
		model:        opts.Model,
		maxBodyBytes: opts.MaxBodyBytes,
		tokenizer:    opts.Tokenizer,
		logger:       opts.Logger,
	}
	if h.model == "" {
		h.model = config.DefaultModel
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = config.DefaultMaxBodyBytes
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// exchange records what happened during one relay call, for logs and metrics.
type exchange struct {
	requestID       string
	upstreamStatus  int
	upstreamElapsed time.Duration
	usage           types.Usage
	promptEstimate  int
}

// ServeHTTP relays one chat request and always answers with a ChatResponse body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ex := &exchange{requestID: middleware.GetRequestID(r.Context())}
	if ex.requestID == "" {
		ex.requestID = uuid.New().String()
	}

	reply, err := h.relay(w, r, ex)
	if err != nil {
		var relayErr *Error
		if !errors.As(err, &relayErr) {
			relayErr = internalError(err)
		}
		if relayErr.Kind == KindMethodNotAllowed {
			w.Header().Set("Allow", http.MethodPost)
		}

		shared.WriteJSON(w, types.NewChatFailure(relayErr.Message), relayErr.Kind.Status())
		observability.RelayRequestsTotal.WithLabelValues(relayErr.Kind.String()).Inc()
		h.logFailure(relayErr, ex, time.Since(start))
		return
	}

	shared.WriteJSON(w, reply, http.StatusOK)
	observability.RelayRequestsTotal.WithLabelValues("ok").Inc()
	h.logSuccess(ex, time.Since(start))
}

// relay runs the validation and upstream call. A panic anywhere below is
// reported as an internal error rather than crashing the server.
func (h *Handler) relay(w http.ResponseWriter, r *http.Request, ex *exchange) (reply *types.ChatResponse, err error) {
	defer func() {
		if p := recover(); p != nil {
			reply = nil
			err = internalError(fmt.Errorf("panic: %v", p))
		}
	}()

	if r.Method != http.MethodPost {
		return nil, newError(KindMethodNotAllowed, MsgMethodNotAllowed, nil)
	}

	messages, err := h.readMessages(w, r)
	if err != nil {
		return nil, err
	}

	if h.credential == "" {
		return nil, newError(KindConfiguration, MsgNotConfigured, fmt.Errorf("%s is not set", config.CredentialEnv))
	}

	upstreamReq := types.NewCompletionRequest(h.model, messages)
	estimate := h.estimatePromptTokens(upstreamReq)

	// The upstream call is detached from the client: a disconnect does not
	// cancel it. The provider's own timeout still bounds it.
	ctx := context.WithoutCancel(r.Context())

	callStart := time.Now()
	completion, err := h.provider.Complete(ctx, upstreamReq, &provider.RequestOptions{
		APIKey:    h.credential,
		RequestID: ex.requestID,
	})
	ex.upstreamElapsed = time.Since(callStart)
	ex.promptEstimate = estimate.wait()

	if err != nil {
		return nil, h.classifyUpstreamError(err, ex)
	}

	ex.upstreamStatus = http.StatusOK
	ex.usage = completion.UsageOrZero()
	observability.ObserveUpstream(h.provider.Name(), h.model, ex.upstreamElapsed, ex.usage.PromptTokens, ex.usage.CompletionTokens)

	content, ok := completion.FirstContent()
	if !ok {
		content = FallbackReply
	}

	return types.NewChatSuccess(content, ex.usage), nil
}

// readMessages reads the body and returns the messages array.
func (h *Handler) readMessages(w http.ResponseWriter, r *http.Request) ([]json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, newError(KindInvalidInput, MsgBodyTooLarge, err)
		}
		return nil, newError(KindInvalidInput, MsgInvalidMessages, err)
	}

	var req types.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, newError(KindInvalidInput, MsgInvalidMessages, err)
	}

	messages, ok := req.MessageList()
	if !ok {
		return nil, newError(KindInvalidInput, MsgInvalidMessages, errors.New("messages is missing or not an array"))
	}
	return messages, nil
}

// classifyUpstreamError maps a provider failure onto the error taxonomy.
func (h *Handler) classifyUpstreamError(err error, ex *exchange) *Error {
	se, ok := provider.AsStatusError(err)
	if !ok {
		if errors.Is(err, provider.ErrNoAPIKey) {
			return newError(KindConfiguration, MsgNotConfigured, err)
		}
		return internalError(err)
	}

	ex.upstreamStatus = se.StatusCode
	observability.ObserveUpstream(h.provider.Name(), h.model, ex.upstreamElapsed, 0, 0)

	switch se.StatusCode {
	case http.StatusUnauthorized:
		return newError(KindUpstreamAuth, MsgUpstreamAuth, err)
	case http.StatusTooManyRequests:
		return newError(KindUpstreamRateLimited, MsgRateLimited, err)
	default:
		detail := se.Message
		if detail == "" {
			detail = MsgUnknownUpstream
		}
		return newError(KindUpstream, fmt.Sprintf("%s error: %s", h.provider.Name(), detail), err)
	}
}

func (h *Handler) logSuccess(ex *exchange, elapsed time.Duration) {
	h.logger.Info("relay completed",
		"request_id", ex.requestID,
		"status", http.StatusOK,
		"model", h.model,
		"duration_ms", elapsed.Milliseconds(),
		"upstream_ms", ex.upstreamElapsed.Milliseconds(),
		"prompt_tokens", ex.usage.PromptTokens,
		"completion_tokens", ex.usage.CompletionTokens,
		"total_tokens", ex.usage.TotalTokens,
		"estimated_prompt_tokens", ex.promptEstimate,
	)
}

func (h *Handler) logFailure(relayErr *Error, ex *exchange, elapsed time.Duration) {
	status := relayErr.Kind.Status()

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	attrs := []any{
		"request_id", ex.requestID,
		"kind", relayErr.Kind.String(),
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	}
	if ex.upstreamStatus != 0 {
		attrs = append(attrs, "upstream_status", ex.upstreamStatus, "upstream_ms", ex.upstreamElapsed.Milliseconds())
	}
	if relayErr.Err != nil {
		attrs = append(attrs, "error", relayErr.Err.Error())
	}

	h.logger.Log(context.Background(), level, "relay failed", attrs...)
}
