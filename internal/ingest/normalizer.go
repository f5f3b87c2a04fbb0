// Package ingest normalizes loosely-structured task payloads into
// canonical task records and keeps them in an append-only store.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fentz26/pagent/internal/models"
	"github.com/google/uuid"
)

// Form identifies which normalization path produced a task.
type Form string

const (
	// FormStructured means the payload parsed as a JSON task object.
	FormStructured Form = "structured"
	// FormFreeform means the payload was kept as free text.
	FormFreeform Form = "freeform"
)

// freeformNameLimit caps how much of a free-text payload becomes the
// task name.
const freeformNameLimit = 80

// placeholderName is used when a payload supplies no usable name.
const placeholderName = "Untitled Task"

// taskPayload accepts both snake_case and camelCase keys for every
// optional field. Upstream producers emit either convention under the
// same system tag.
type taskPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	EstimatedDurationSnake *float64 `json:"estimated_duration"`
	EstimatedDurationCamel *float64 `json:"estimatedDuration"`

	Deadline string `json:"deadline"`

	ExplicitPrioritySnake string `json:"explicit_priority"`
	ExplicitPriorityCamel string `json:"explicitPriority"`

	Dependencies []string `json:"dependencies"`

	PreferredTimeWindowsSnake []models.TimeWindow `json:"preferred_time_windows"`
	PreferredTimeWindowsCamel []models.TimeWindow `json:"preferredTimeWindows"`

	AssignedCalendarEventIDSnake *string `json:"assigned_calendar_event_id"`
	AssignedCalendarEventIDCamel *string `json:"assignedCalendarEventId"`

	Tags []string `json:"tags"`

	CompletionStatusSnake string `json:"completion_status"`
	CompletionStatusCamel string `json:"completionStatus"`
}

// Normalize converts a payload string into a canonical Task. It never
// fails: a payload that is not a JSON object degrades into a freeform
// task carrying the original text. A fresh id is generated whenever the
// payload supplies none, so normalizing identical input twice never
// yields colliding ids.
func Normalize(payload string) (models.Task, Form) {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") {
		var p taskPayload
		if err := json.Unmarshal([]byte(trimmed), &p); err == nil {
			return structuredTask(p), FormStructured
		}
	}
	return freeformTask(payload), FormFreeform
}

func structuredTask(p taskPayload) models.Task {
	task := models.Task{
		ID:                      p.ID,
		Name:                    p.Name,
		Description:             p.Description,
		Deadline:                p.Deadline,
		ExplicitPriority:        models.PriorityLevel(pickString(p.ExplicitPrioritySnake, p.ExplicitPriorityCamel)),
		Dependencies:            p.Dependencies,
		PreferredTimeWindows:    pickWindows(p.PreferredTimeWindowsSnake, p.PreferredTimeWindowsCamel),
		AssignedCalendarEventID: pickStringPtr(p.AssignedCalendarEventIDSnake, p.AssignedCalendarEventIDCamel),
		Tags:                    p.Tags,
		CompletionStatus:        models.CompletionStatus(pickString(p.CompletionStatusSnake, p.CompletionStatusCamel)),
	}

	if d := pickFloat(p.EstimatedDurationSnake, p.EstimatedDurationCamel); d != nil {
		minutes := int(*d)
		task.EstimatedDuration = &minutes
	}

	applyDefaults(&task)
	return task
}

func freeformTask(payload string) models.Task {
	name := payload
	if runes := []rune(payload); len(runes) > freeformNameLimit {
		name = string(runes[:freeformNameLimit])
	}
	if strings.TrimSpace(name) == "" {
		name = placeholderName
	}

	task := models.Task{
		Name:        name,
		Description: payload,
	}
	applyDefaults(&task)
	return task
}

// applyDefaults fills the fields both paths guarantee: a usable id and
// name, non-nil sequences, and a completion status.
func applyDefaults(task *models.Task) {
	if task.ID == "" {
		task.ID = newTaskID()
	}
	if strings.TrimSpace(task.Name) == "" {
		task.Name = placeholderName
	}
	if task.Dependencies == nil {
		task.Dependencies = []string{}
	}
	if task.PreferredTimeWindows == nil {
		task.PreferredTimeWindows = []models.TimeWindow{}
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.CompletionStatus == "" {
		task.CompletionStatus = models.StatusNotStarted
	}
}

// newTaskID generates an id from the current timestamp plus a random
// suffix. Enough entropy to make collisions negligible within a session,
// not cryptographically guaranteed.
func newTaskID() string {
	return fmt.Sprintf("task-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

func pickString(snake, camel string) string {
	if snake != "" {
		return snake
	}
	return camel
}

func pickStringPtr(snake, camel *string) *string {
	if snake != nil {
		return snake
	}
	return camel
}

func pickFloat(snake, camel *float64) *float64 {
	if snake != nil {
		return snake
	}
	return camel
}

func pickWindows(snake, camel []models.TimeWindow) []models.TimeWindow {
	if snake != nil {
		return snake
	}
	return camel
}
