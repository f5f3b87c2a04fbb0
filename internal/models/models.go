// Package models defines the core domain types for pagent.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PriorityLevel is the explicit priority a task payload may carry.
type PriorityLevel string

const (
	PriorityUrgent   PriorityLevel = "P1_Urgent"
	PriorityHigh     PriorityLevel = "P2_High"
	PriorityMedium   PriorityLevel = "P3_Medium"
	PriorityLow      PriorityLevel = "P4_Low"
	PriorityOptional PriorityLevel = "P5_Optional"
	PriorityNone     PriorityLevel = "None"
)

// CompletionStatus represents the current state of a task.
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "NotStarted"
	StatusInProgress CompletionStatus = "InProgress"
	StatusCompleted  CompletionStatus = "Completed"
)

// TimeWindow is a preferred scheduling window for a task.
type TimeWindow struct {
	StartTime        string   `json:"startTime"` // HH:mm
	EndTime          string   `json:"endTime"`   // HH:mm
	DaysOfWeek       []string `json:"daysOfWeek"`
	FlexibilityLevel int      `json:"flexibilityLevel"` // 0..3
}

// Task is the canonical task record produced by ingestion.
type Task struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	Description             string           `json:"description,omitempty"`
	EstimatedDuration       *int             `json:"estimated_duration,omitempty"` // minutes
	Deadline                string           `json:"deadline,omitempty"`           // ISO-8601
	ExplicitPriority        PriorityLevel    `json:"explicit_priority,omitempty"`
	Dependencies            []string         `json:"dependencies"`
	PreferredTimeWindows    []TimeWindow     `json:"preferred_time_windows"`
	AssignedCalendarEventID *string          `json:"assigned_calendar_event_id,omitempty"`
	Tags                    []string         `json:"tags"`
	CompletionStatus        CompletionStatus `json:"completion_status"`
}

// IngestedTask is a Task plus provenance metadata. Created only by
// ingestion and never mutated afterwards.
type IngestedTask struct {
	Task
	RawSource  string    `json:"raw_source"`
	ReceivedAt time.Time `json:"received_at"`
}

// CalendarEvent is a calendar entry a task may be assigned to.
type CalendarEvent struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
	IsAllDay      bool   `json:"is_all_day,omitempty"`
	IsFreeSlot    bool   `json:"is_free_slot,omitempty"`
}

// ChatAuthor identifies who produced a chat message.
type ChatAuthor string

const (
	AuthorUser      ChatAuthor = "user"
	AuthorAssistant ChatAuthor = "assistant"
	AuthorSystem    ChatAuthor = "system"
)

// DeliveryStatus is the optional delivery state of a chat message.
type DeliveryStatus string

const (
	DeliverySending DeliveryStatus = "sending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryError   DeliveryStatus = "error"
)

// ChatMessage is one entry in the conversation log. Immutable once appended.
type ChatMessage struct {
	ID        string         `json:"id"`
	Author    ChatAuthor     `json:"author"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Status    DeliveryStatus `json:"status,omitempty"`
}

// AuditEntry records one state-mutating decision for the audit trail.
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	TaskID     string    `json:"task_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChatMessage creates a message with a fresh id and current timestamp.
// IDs only need to be unique within the running session.
func NewChatMessage(author ChatAuthor, content string) ChatMessage {
	return ChatMessage{
		ID:        string(author) + "-" + uuid.New().String(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
