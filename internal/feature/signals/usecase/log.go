package usecase

import (
	"log/slog"
	"time"
)

// Log actions recorded per facet fetch.
const (
	actionStart   = "start"
	actionSuccess = "success"
	actionError   = "error"
)

// LogEntry is one collection event recorded during a build, kept for UI
// style inspection of what a run actually fetched.
type LogEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Facet     string        `json:"facet"`
	Action    string        `json:"action"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration_ms"`
	Count     int           `json:"count"`
}

// log appends a build log entry and mirrors it to slog.
func (b *SignalPackBuilder) log(facet, action, message string, duration time.Duration, count int) {
	b.logMu.Lock()
	b.logs = append(b.logs, LogEntry{
		Timestamp: time.Now(),
		Facet:     facet,
		Action:    action,
		Message:   message,
		Duration:  duration,
		Count:     count,
	})
	b.logMu.Unlock()

	if action == actionError {
		slog.Warn("signal pack fetch failed", "facet", facet, "message", message)
	} else {
		slog.Debug("signal pack fetch", "facet", facet, "action", action, "message", message)
	}
}

// Logs returns a copy of the build log in insertion order.
func (b *SignalPackBuilder) Logs() []LogEntry {
	b.logMu.Lock()
	defer b.logMu.Unlock()
	out := make([]LogEntry, len(b.logs))
	copy(out, b.logs)
	return out
}
