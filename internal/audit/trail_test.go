package audit

import (
	"path/filepath"
	"testing"

	"github.com/fentz26/pagent/internal/history"
)

func newTestTrail(t *testing.T) (*Trail, *history.Store) {
	t.Helper()
	s, err := history.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewTrail(s), s
}

func TestRecord_PersistsEntry(t *testing.T) {
	trail, store := newTestTrail(t)

	entry, err := trail.Record("task.ingest", map[string]string{"payload": "buy milk"}, "freeform", "task-1", "")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if entry.InputsHash == "" || entry.InputsHash == "hash_error" {
		t.Errorf("InputsHash = %q, want a real digest", entry.InputsHash)
	}

	entries, err := store.ListAudit(10)
	if err != nil {
		t.Fatalf("ListAudit() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "task.ingest" {
		t.Errorf("entries = %v, want the recorded action", entries)
	}
}

func TestHashInputs_Deterministic(t *testing.T) {
	a := hashInputs(map[string]string{"payload": "same"})
	b := hashInputs(map[string]string{"payload": "same"})
	c := hashInputs(map[string]string{"payload": "different"})

	if a != b {
		t.Error("identical inputs should hash identically")
	}
	if a == c {
		t.Error("different inputs should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
