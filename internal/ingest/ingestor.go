package ingest

import (
	"context"
	"log"

	"github.com/fentz26/pagent/internal/models"
)

// Recorder records ingestion decisions for the audit trail.
type Recorder interface {
	Record(action string, inputs interface{}, outcome, taskID, details string) (*models.AuditEntry, error)
}

// Ingestor is the ingestion port exposed to the response router: it
// normalizes a payload and records the result. Normalization always
// produces a valid task, so ingestion never fails on malformed input.
type Ingestor struct {
	store *Store
	trail Recorder
}

// NewIngestor creates an ingestor writing into store. trail may be nil
// when no audit trail is wired.
func NewIngestor(store *Store, trail Recorder) *Ingestor {
	return &Ingestor{store: store, trail: trail}
}

// IngestTask normalizes payload and appends the result to the store.
func (g *Ingestor) IngestTask(ctx context.Context, payload string) error {
	task, form := Normalize(payload)
	g.store.Ingest(task, payload)
	log.Printf("ingest: recorded task %s (%q, %s)", task.ID, task.Name, form)

	if g.trail != nil {
		g.trail.Record("task.ingest", map[string]string{"payload": payload}, string(form), task.ID, "")
	}
	return nil
}

// Store returns the underlying task store.
func (g *Ingestor) Store() *Store {
	return g.store
}
