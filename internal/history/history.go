// Package history provides SQLite-backed persistence for pagent: the
// conversation log and the audit trail. The routing core never writes
// here; the surface layers own the log.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/pagent/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the pagent SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		author TEXT NOT NULL,
		content TEXT NOT NULL,
		status TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_trail (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		task_id TEXT,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);
	CREATE INDEX IF NOT EXISTS idx_audit_trail_task_id ON audit_trail(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Message Operations ---

// AppendMessage inserts a chat message into the conversation log.
// Messages are immutable once appended.
func (s *Store) AppendMessage(msg models.ChatMessage) error {
	var status sql.NullString
	if msg.Status != "" {
		status = sql.NullString{String: string(msg.Status), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO messages (id, author, content, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.Author, msg.Content, status, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns the most recent messages in chronological order.
// A non-positive limit returns everything.
func (s *Store) ListMessages(limit int) ([]models.ChatMessage, error) {
	query := `SELECT id, author, content, status, created_at FROM messages ORDER BY created_at ASC`
	var args []interface{}
	if limit > 0 {
		query = `SELECT id, author, content, status, created_at FROM (
			SELECT id, author, content, status, created_at FROM messages ORDER BY created_at DESC LIMIT ?
		) ORDER BY created_at ASC`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var status sql.NullString
		if err := rows.Scan(&msg.ID, &msg.Author, &msg.Content, &status, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if status.Valid {
			msg.Status = models.DeliveryStatus(status.String)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// --- Audit Trail Operations ---

// WriteAudit writes an audit trail entry.
func (s *Store) WriteAudit(action, inputsHash, outcome, taskID, details string) (*models.AuditEntry, error) {
	now := time.Now().UTC()
	entry := &models.AuditEntry{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  now,
	}

	_, err := s.db.Exec(
		`INSERT INTO audit_trail (id, action, inputs_hash, outcome, task_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.InputsHash, entry.Outcome, entry.TaskID, entry.Details, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

// ListAudit returns the most recent audit entries, newest first.
func (s *Store) ListAudit(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, action, inputs_hash, outcome, task_id, details, timestamp FROM audit_trail ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		var taskID, details sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.InputsHash, &entry.Outcome, &taskID, &details, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if taskID.Valid {
			entry.TaskID = taskID.String
		}
		if details.Valid {
			entry.Details = details.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
