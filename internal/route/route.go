// Package route resolves raw assistant responses into routed outcomes.
// The router owns a tag→handler table; tags other than the user-reply tag
// are dispatched to registered handlers, everything else falls back per
// the configured fallback tag.
package route

import (
	"context"
	"strings"

	"github.com/fentz26/pagent/internal/protocol"
)

// Outcome is the result of routing one raw response. Exactly one variant
// is produced per invocation.
type Outcome interface {
	isOutcome()
}

// UserReply carries a body intended for direct display to the human.
type UserReply struct {
	Text string
}

// SystemForwarded records that the body was routed to a named downstream
// handler.
type SystemForwarded struct {
	Target  string
	Payload string
}

// Unknown preserves the original text unmodified when no tag matched and
// no fallback route applies; the caller decides what to do with it.
type Unknown struct {
	Raw string
}

func (UserReply) isOutcome()       {}
func (SystemForwarded) isOutcome() {}
func (Unknown) isOutcome()         {}

// Result describes which handler processed a forwarded payload.
type Result struct {
	Target string
}

// Handler processes the payload routed under a system tag. A handler
// error is not caught here: it propagates to the caller, which owns the
// error boundary.
type Handler func(ctx context.Context, payload string) (Result, error)

// Router maps header tags to handlers.
type Router struct {
	routes   map[protocol.Tag]Handler
	fallback protocol.Tag
}

// Option configures a Router.
type Option func(*Router)

// WithFallback sets the tag assumed when no recognized header is present.
// Defaults to the user-reply tag.
func WithFallback(tag protocol.Tag) Option {
	return func(r *Router) {
		r.fallback = tag
	}
}

// New creates a Router with the given routing table. The table maps tags
// other than the user-reply tag to handlers; a nil table routes nothing.
func New(routes map[protocol.Tag]Handler, opts ...Option) *Router {
	r := &Router{
		routes:   routes,
		fallback: protocol.TagUser,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle resolves a raw response into an Outcome. Header and payload
// problems never surface as errors; only a handler failure does.
func (r *Router) Handle(ctx context.Context, raw string) (Outcome, error) {
	if raw == "" {
		return Unknown{Raw: raw}, nil
	}

	tag, remainder := protocol.Parse(raw, r.fallback)

	if tag == protocol.TagUser {
		return UserReply{Text: strings.TrimSpace(remainder)}, nil
	}

	if handler, ok := r.routes[tag]; ok {
		payload := strings.TrimSpace(remainder)
		result, err := handler(ctx, payload)
		if err != nil {
			return nil, err
		}
		return SystemForwarded{Target: result.Target, Payload: payload}, nil
	}

	// No handler registered for a non-user tag. When the fallback is the
	// user-reply tag the entire original string, header included, is shown
	// rather than swallowed.
	if r.fallback == protocol.TagUser {
		return UserReply{Text: strings.TrimSpace(raw)}, nil
	}
	return Unknown{Raw: raw}, nil
}

// TaskIngestor is the ingestion port consumed by the default routing
// table.
type TaskIngestor interface {
	IngestTask(ctx context.Context, payload string) error
}

// IngestTarget names the handler that processes SYS payloads.
const IngestTarget = "task-ingestor"

// DefaultRoutes wires the SYS tag to task ingestion.
func DefaultRoutes(ingestor TaskIngestor) map[protocol.Tag]Handler {
	return map[protocol.Tag]Handler{
		protocol.TagSystem: func(ctx context.Context, payload string) (Result, error) {
			if err := ingestor.IngestTask(ctx, payload); err != nil {
				return Result{}, err
			}
			return Result{Target: IngestTarget}, nil
		},
	}
}
