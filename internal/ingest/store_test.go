package ingest

import (
	"context"
	"testing"

	"github.com/fentz26/pagent/internal/models"
)

func TestStore_IngestionOrderPreserved(t *testing.T) {
	store := NewStore()
	store.Ingest(models.Task{ID: "a", Name: "first"}, "raw-a")
	store.Ingest(models.Task{ID: "b", Name: "second"}, "raw-b")
	store.Ingest(models.Task{ID: "a", Name: "first again"}, "raw-a2")

	tasks := store.List()
	if len(tasks) != 3 {
		t.Fatalf("List() returned %d tasks, want 3 (duplicates are kept)", len(tasks))
	}
	if tasks[0].ID != "a" || tasks[1].ID != "b" || tasks[2].ID != "a" {
		t.Errorf("List() order = [%s %s %s], want [a b a]", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
	if tasks[0].RawSource != "raw-a" {
		t.Errorf("RawSource = %q, want %q", tasks[0].RawSource, "raw-a")
	}
	if tasks[0].ReceivedAt.IsZero() {
		t.Error("Expected ReceivedAt to be stamped")
	}
}

func TestStore_ListReturnsSnapshot(t *testing.T) {
	store := NewStore()
	store.Ingest(models.Task{ID: "a", Name: "original"}, "raw")

	snapshot := store.List()
	snapshot[0].Name = "mutated"

	if got := store.List()[0].Name; got != "original" {
		t.Errorf("Store entry name = %q after mutating a snapshot, want %q", got, "original")
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Ingest(models.Task{ID: "a"}, "raw")
	store.Ingest(models.Task{ID: "b"}, "raw")

	store.Clear()
	if store.Count() != 0 {
		t.Errorf("Count() = %d after Clear(), want 0", store.Count())
	}
	if len(store.List()) != 0 {
		t.Errorf("List() = %v after Clear(), want empty", store.List())
	}

	// The store stays usable after clearing.
	store.Ingest(models.Task{ID: "c"}, "raw")
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}

func TestIngestor_StructuredAndFreeform(t *testing.T) {
	store := NewStore()
	ingestor := NewIngestor(store, nil)

	if err := ingestor.IngestTask(context.Background(), `{"name":"Buy milk"}`); err != nil {
		t.Fatalf("IngestTask() error = %v", err)
	}
	if err := ingestor.IngestTask(context.Background(), "just some words"); err != nil {
		t.Fatalf("IngestTask() error = %v", err)
	}

	tasks := store.List()
	if len(tasks) != 2 {
		t.Fatalf("store has %d tasks, want 2", len(tasks))
	}
	if tasks[0].Name != "Buy milk" {
		t.Errorf("tasks[0].Name = %q, want %q", tasks[0].Name, "Buy milk")
	}
	if tasks[0].RawSource != `{"name":"Buy milk"}` {
		t.Errorf("tasks[0].RawSource = %q, want original payload", tasks[0].RawSource)
	}
	if tasks[1].Name != "just some words" {
		t.Errorf("tasks[1].Name = %q, want the freeform text", tasks[1].Name)
	}
}
