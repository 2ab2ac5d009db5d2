package audit

import (
	"context"
	"time"

	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Entry represents a single audit log entry with structured fields
type Entry struct {
	ID           string
	Timestamp    time.Time
	Action       string
	Actor        string
	Role         string
	ResourceType string
	ResourceID   string
	Status       string
	Details      map[string]string
}

// Logger records every mutating operation on the event engine.
type Logger struct {
	output zerolog.Logger
}

func NewLogger(output zerolog.Logger) *Logger {
	return &Logger{output: output.With().Str("component", "audit").Logger()}
}

// Nop returns a logger that discards every entry.
func Nop() *Logger {
	return &Logger{output: zerolog.Nop()}
}

func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ID == "" {
		if id, err := ids.NewULID(); err == nil {
			entry.ID = id
		}
	}

	evt := l.output.Info()
	if entry.Status == StatusFailure {
		evt = l.output.Warn()
	}
	evt = evt.
		Bool("audit", true).
		Str("audit_id", entry.ID).
		Time("at", entry.Timestamp).
		Str("action", entry.Action).
		Str("actor", entry.Actor).
		Str("role", entry.Role).
		Str("status", entry.Status)
	if entry.ResourceType != "" {
		evt = evt.Str("resource_type", entry.ResourceType)
	}
	if entry.ResourceID != "" {
		evt = evt.Str("resource_id", entry.ResourceID)
	}
	if len(entry.Details) > 0 {
		details := zerolog.Dict()
		for k, v := range entry.Details {
			details = details.Str(k, v)
		}
		evt = evt.Dict("details", details)
	}
	evt.Msg("audit")
}

// Record logs the outcome of action on a resource performed by the caller in
// ctx. A nil err is logged as success.
func (l *Logger) Record(ctx context.Context, action auth.Operation, resourceType, resourceID string, err error, details map[string]string) {
	caller := auth.CallerFromContext(ctx)
	entry := Entry{
		Action:       string(action),
		Actor:        caller.ID,
		Role:         string(caller.Role),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       StatusSuccess,
		Details:      details,
	}
	if err != nil {
		entry.Status = StatusFailure
		merged := make(map[string]string, len(details)+1)
		for k, v := range details {
			merged[k] = v
		}
		merged["error"] = err.Error()
		entry.Details = merged
	}
	l.Log(entry)
}
