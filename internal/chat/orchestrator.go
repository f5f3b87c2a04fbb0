// Package chat coordinates one user turn: it obtains a raw reply from
// the assistant backend, routes it, and converts the routed outcome into
// chat messages for display.
package chat

import (
	"context"
	"fmt"

	"github.com/fentz26/pagent/internal/llm"
	"github.com/fentz26/pagent/internal/models"
	"github.com/fentz26/pagent/internal/route"
	"golang.org/x/sync/semaphore"
)

// fallbackContent is shown when an Unknown outcome carries no text.
const fallbackContent = "I was unable to understand that response."

// Orchestrator drives the parse → normalize/ingest → translate sequence
// for each user message.
type Orchestrator struct {
	client llm.Client
	router *route.Router

	// inflight admits one request at a time. Concurrent callers queue in
	// submission order; message ordering in the visible log therefore
	// matches completion order of the serialized calls.
	inflight *semaphore.Weighted
}

// New creates an orchestrator around the given backend client and router.
func New(client llm.Client, router *route.Router) *Orchestrator {
	return &Orchestrator{
		client:   client,
		router:   router,
		inflight: semaphore.NewWeighted(1),
	}
}

// HandleUserMessage runs one full turn and returns the messages to
// append to the conversation. Normalization and header issues never
// surface as errors; only a transport failure from the backend or a
// routing-handler failure does. On error the conversation log is left
// untouched — the caller records the user's own message before invoking
// this, so input is never lost.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, input string) ([]models.ChatMessage, error) {
	if err := o.inflight.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("chat: acquire request slot: %w", err)
	}
	defer o.inflight.Release(1)

	raw, err := o.client.SendMessage(ctx, input)
	if err != nil {
		return nil, err
	}

	outcome, err := o.router.Handle(ctx, raw)
	if err != nil {
		return nil, err
	}

	return translate(outcome), nil
}

// translate converts a routed outcome into display messages.
func translate(outcome route.Outcome) []models.ChatMessage {
	switch v := outcome.(type) {
	case route.UserReply:
		return []models.ChatMessage{
			models.NewChatMessage(models.AuthorAssistant, v.Text),
		}
	case route.SystemForwarded:
		content := fmt.Sprintf("Captured task and forwarded to %s:\n%s", v.Target, v.Payload)
		return []models.ChatMessage{
			models.NewChatMessage(models.AuthorSystem, content),
		}
	case route.Unknown:
		content := v.Raw
		if content == "" {
			content = fallbackContent
		}
		return []models.ChatMessage{
			models.NewChatMessage(models.AuthorAssistant, content),
		}
	default:
		// The outcome union is sealed; this branch is unreachable.
		return []models.ChatMessage{
			models.NewChatMessage(models.AuthorAssistant, fallbackContent),
		}
	}
}
