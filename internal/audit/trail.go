// Package audit records routing and ingestion decisions for pagent.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/pagent/internal/history"
	"github.com/fentz26/pagent/internal/models"
)

// Trail writes audit entries for state-mutating actions.
type Trail struct {
	store *history.Store
}

// NewTrail creates a new audit trail writer.
func NewTrail(s *history.Store) *Trail {
	return &Trail{store: s}
}

// Record writes an audit entry for a state-mutating action.
func (t *Trail) Record(action string, inputs interface{}, outcome, taskID, details string) (*models.AuditEntry, error) {
	inputsHash := hashInputs(inputs)
	return t.store.WriteAudit(action, inputsHash, outcome, taskID, details)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
