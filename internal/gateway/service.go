// Package gateway provides the local HTTP API and service layer for
// pagent.
package gateway

import (
	"context"
	"strings"

	"github.com/fentz26/pagent/internal/audit"
	"github.com/fentz26/pagent/internal/chat"
	"github.com/fentz26/pagent/internal/history"
	"github.com/fentz26/pagent/internal/ingest"
	"github.com/fentz26/pagent/internal/models"
)

// Service ties the chat pipeline to the conversation log, the ingested
// task store, and the audit trail.
type Service struct {
	orch    *chat.Orchestrator
	tasks   *ingest.Store
	history *history.Store
	trail   *audit.Trail
}

// NewService creates the gateway service.
func NewService(orch *chat.Orchestrator, tasks *ingest.Store, hist *history.Store, trail *audit.Trail) *Service {
	return &Service{
		orch:    orch,
		tasks:   tasks,
		history: hist,
		trail:   trail,
	}
}

// SendChat runs one user turn. The user's message is recorded in the log
// before the pipeline runs, so a pipeline failure never loses input; on
// failure the rest of the log is left as-is and the caller is expected
// to offer a retry.
func (s *Service) SendChat(ctx context.Context, input string) ([]models.ChatMessage, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	userMsg := models.NewChatMessage(models.AuthorUser, input)
	userMsg.Status = models.DeliverySent
	if err := s.history.AppendMessage(userMsg); err != nil {
		return nil, err
	}

	replies, err := s.orch.HandleUserMessage(ctx, input)
	if err != nil {
		s.trail.Record("chat.handle", map[string]string{"input": input}, "error", "", err.Error())
		return nil, err
	}

	for _, msg := range replies {
		if err := s.history.AppendMessage(msg); err != nil {
			return nil, err
		}
	}

	s.trail.Record("chat.handle", map[string]string{"input": input}, "success", "", "")
	return append([]models.ChatMessage{userMsg}, replies...), nil
}

// ListTasks returns a snapshot of the ingested task store.
func (s *Service) ListTasks() []models.IngestedTask {
	return s.tasks.List()
}

// ClearTasks empties the ingested task store and returns how many
// entries were removed.
func (s *Service) ClearTasks() int {
	cleared := s.tasks.Count()
	s.tasks.Clear()
	s.trail.Record("tasks.clear", map[string]int{"cleared": cleared}, "success", "", "")
	return cleared
}

// ListMessages returns recent conversation log entries.
func (s *Service) ListMessages(limit int) ([]models.ChatMessage, error) {
	return s.history.ListMessages(limit)
}

// ListAudit returns recent audit trail entries.
func (s *Service) ListAudit(limit int) ([]models.AuditEntry, error) {
	return s.history.ListAudit(limit)
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}
