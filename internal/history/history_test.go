package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fentz26/pagent/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func messageAt(author models.ChatAuthor, content string, at time.Time) models.ChatMessage {
	msg := models.NewChatMessage(author, content)
	msg.CreatedAt = at
	return msg
}

func TestAppendAndListMessages(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	first := messageAt(models.AuthorUser, "hello", base)
	first.Status = models.DeliverySent
	second := messageAt(models.AuthorAssistant, "hi there", base.Add(time.Second))

	if err := s.AppendMessage(first); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	if err := s.AppendMessage(second); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}

	msgs, err := s.ListMessages(0)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "hello" || msgs[1].Content != "hi there" {
		t.Errorf("messages out of order: [%q %q]", msgs[0].Content, msgs[1].Content)
	}
	if msgs[0].Status != models.DeliverySent {
		t.Errorf("Status = %q, want %q", msgs[0].Status, models.DeliverySent)
	}
	if msgs[1].Status != "" {
		t.Errorf("Status = %q, want empty for message appended without one", msgs[1].Status)
	}
	if msgs[0].Author != models.AuthorUser || msgs[1].Author != models.AuthorAssistant {
		t.Errorf("authors = [%q %q], want [user assistant]", msgs[0].Author, msgs[1].Author)
	}
}

func TestListMessages_LimitKeepsMostRecent(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		msg := messageAt(models.AuthorUser, c, base.Add(time.Duration(i)*time.Second))
		if err := s.AppendMessage(msg); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	msgs, err := s.ListMessages(2)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	// The most recent two, still in chronological order.
	if msgs[0].Content != "three" || msgs[1].Content != "four" {
		t.Errorf("messages = [%q %q], want [three four]", msgs[0].Content, msgs[1].Content)
	}
}

func TestAppendMessage_DuplicateIDRejected(t *testing.T) {
	s := newTestStore(t)

	msg := models.NewChatMessage(models.AuthorUser, "once")
	if err := s.AppendMessage(msg); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	if err := s.AppendMessage(msg); err == nil {
		t.Error("Expected an error appending a message with a duplicate id")
	}
}

func TestAuditTrailRoundTrip(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.WriteAudit("task.ingest", "abc123", "structured", "task-1", "")
	if err != nil {
		t.Fatalf("WriteAudit() error = %v", err)
	}
	if entry.ID == "" || entry.Timestamp.IsZero() {
		t.Error("Expected id and timestamp on the returned entry")
	}

	if _, err := s.WriteAudit("tasks.clear", "def456", "success", "", "removed 3"); err != nil {
		t.Fatalf("WriteAudit() error = %v", err)
	}

	entries, err := s.ListAudit(10)
	if err != nil {
		t.Fatalf("ListAudit() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Action != "tasks.clear" {
		t.Errorf("entries[0].Action = %q, want tasks.clear", entries[0].Action)
	}
	if entries[1].TaskID != "task-1" {
		t.Errorf("entries[1].TaskID = %q, want task-1", entries[1].TaskID)
	}
	if entries[0].Details != "removed 3" {
		t.Errorf("entries[0].Details = %q, want removed 3", entries[0].Details)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s1, err := New(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.AppendMessage(models.NewChatMessage(models.AuthorUser, "persisted")); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	s1.Close()

	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	msgs, err := s2.ListMessages(0)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "persisted" {
		t.Errorf("messages = %v, want the message written before reopen", msgs)
	}
}
