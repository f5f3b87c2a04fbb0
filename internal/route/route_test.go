package route

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fentz26/pagent/internal/protocol"
)

// recordingIngestor captures the payloads handed to it.
type recordingIngestor struct {
	payloads []string
	err      error
}

func (r *recordingIngestor) IngestTask(ctx context.Context, payload string) error {
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestHandle_UserReplies(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
	}{
		{
			name:     "explicit user tag",
			raw:      "[USR] Here is your answer.",
			wantText: "Here is your answer.",
		},
		{
			name:     "lowercase user tag",
			raw:      "[usr]hi",
			wantText: "hi",
		},
		{
			name:     "no header falls back to user reply",
			raw:      "A bare response with no tag.",
			wantText: "A bare response with no tag.",
		},
		{
			name:     "unknown tag shown to user with header intact",
			raw:      "[XYZ] mystery payload",
			wantText: "[XYZ] mystery payload",
		},
		{
			name:     "surrounding whitespace trimmed",
			raw:      "[USR]   padded   ",
			wantText: "padded",
		},
	}

	router := New(DefaultRoutes(&recordingIngestor{}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := router.Handle(context.Background(), tt.raw)
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			reply, ok := outcome.(UserReply)
			if !ok {
				t.Fatalf("Handle() outcome = %T, want UserReply", outcome)
			}
			if reply.Text != tt.wantText {
				t.Errorf("Handle() text = %q, want %q", reply.Text, tt.wantText)
			}
		})
	}
}

func TestHandle_SystemForwarded(t *testing.T) {
	ingestor := &recordingIngestor{}
	router := New(DefaultRoutes(ingestor))

	outcome, err := router.Handle(context.Background(), `[SYS] {"name":"Buy milk"}`)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	forwarded, ok := outcome.(SystemForwarded)
	if !ok {
		t.Fatalf("Handle() outcome = %T, want SystemForwarded", outcome)
	}
	if forwarded.Target != IngestTarget {
		t.Errorf("Target = %q, want %q", forwarded.Target, IngestTarget)
	}
	if forwarded.Payload != `{"name":"Buy milk"}` {
		t.Errorf("Payload = %q, want trimmed json body", forwarded.Payload)
	}
	if len(ingestor.payloads) != 1 || ingestor.payloads[0] != `{"name":"Buy milk"}` {
		t.Errorf("Ingestor received %v, want the routed payload exactly once", ingestor.payloads)
	}
}

func TestHandle_EmptyInput(t *testing.T) {
	router := New(DefaultRoutes(&recordingIngestor{}))

	outcome, err := router.Handle(context.Background(), "")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	unknown, ok := outcome.(Unknown)
	if !ok {
		t.Fatalf("Handle() outcome = %T, want Unknown", outcome)
	}
	if unknown.Raw != "" {
		t.Errorf("Raw = %q, want empty", unknown.Raw)
	}
}

func TestHandle_HandlerErrorPropagates(t *testing.T) {
	wantErr := errors.New("ingestion exploded")
	router := New(DefaultRoutes(&recordingIngestor{err: wantErr}))

	outcome, err := router.Handle(context.Background(), "[SYS] payload")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Handle() error = %v, want %v", err, wantErr)
	}
	if outcome != nil {
		t.Errorf("Handle() outcome = %v, want nil on error", outcome)
	}
}

func TestHandle_NonUserFallback(t *testing.T) {
	// With a non-user fallback and no handler for the fallback tag's
	// route, untagged input is preserved as Unknown rather than shown.
	router := New(nil, WithFallback(protocol.TagSystem))

	outcome, err := router.Handle(context.Background(), "untagged text")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	unknown, ok := outcome.(Unknown)
	if !ok {
		t.Fatalf("Handle() outcome = %T, want Unknown", outcome)
	}
	if unknown.Raw != "untagged text" {
		t.Errorf("Raw = %q, want original input", unknown.Raw)
	}
}

func TestHandle_SystemFallbackRoutesUntaggedInput(t *testing.T) {
	ingestor := &recordingIngestor{}
	router := New(DefaultRoutes(ingestor), WithFallback(protocol.TagSystem))

	outcome, err := router.Handle(context.Background(), "remember to water the plants")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if _, ok := outcome.(SystemForwarded); !ok {
		t.Fatalf("Handle() outcome = %T, want SystemForwarded", outcome)
	}
	if len(ingestor.payloads) != 1 || !strings.Contains(ingestor.payloads[0], "water the plants") {
		t.Errorf("Ingestor received %v, want the untagged input", ingestor.payloads)
	}
}
