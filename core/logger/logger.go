// Package logger is a standardized event logging framework for the shell.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell interaction events.
type Logger struct {
	Record LogRecorder
}

// LogEntry is one logged event. Exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	SessionEnd   *SessionEnd   `json:"session_end,omitempty"`
	CommandRun   *CommandRun   `json:"command_run,omitempty"`
	ParseError   *ParseError   `json:"parse_error,omitempty"`
	JobDone      *JobDone      `json:"job_done,omitempty"`
	Interrupt    *Interrupt    `json:"interrupt,omitempty"`
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	WorkingDir string `json:"working_dir,omitempty"`
}

// SessionEnd marks the end of an interactive session.
type SessionEnd struct {
	Status int `json:"status"`
}

// CommandRun records one executed pipeline.
type CommandRun struct {
	Pipeline   string `json:"pipeline"`
	Background bool   `json:"background,omitempty"`
	Builtin    bool   `json:"builtin,omitempty"`
	Status     int    `json:"status"`
	ElapsedMs  int64  `json:"elapsed_ms,omitempty"`
}

// ParseError records a line that was rejected by the parser.
type ParseError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

// JobDone records a background job completion.
type JobDone struct {
	Pgid int `json:"pgid"`
}

// Interrupt records an interrupt signal, and whether it was forwarded to a
// foreground job.
type Interrupt struct {
	Forwarded bool `json:"forwarded"`
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogRecorder creates a Logger that discards everything.
func NewNopLogRecorder() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

// NewSession creates a logger with an attached random session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs entries with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// RecordEvent stamps and stores one event.
func (l *SessionLogger) RecordEvent(le *LogEntry) error {
	le.TimestampMicros = time.Now().UnixMicro()
	le.SessionID = l.sessionID
	return l.Logger.Record(le)
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}
		handler(&logEntry)
	}
	return nil
}
