package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/rs/zerolog"
)

// Entry records a destructive or account-affecting operation.
type Entry struct {
	Timestamp    time.Time         `json:"timestamp"`
	Action       string            `json:"action"`
	Actor        string            `json:"actor"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   string            `json:"resource_id,omitempty"`
	IPAddress    string            `json:"ip_address,omitempty"`
	Status       string            `json:"status"`
	Details      map[string]string `json:"details,omitempty"`
}

// Logger provides structured audit logging, kept separate from the
// application log stream so entries survive log-level filtering.
type Logger struct {
	output *log.Logger
	zl     *zerolog.Logger
}

func NewLogger() *Logger {
	return &Logger{
		output: log.New(log.Writer(), "[AUDIT] ", 0),
	}
}

// NewLoggerWithZerolog routes audit entries through a zerolog logger
// instead of the standard logger. Tests use this to capture output.
func NewLoggerWithZerolog(logger zerolog.Logger) *Logger {
	return &Logger{zl: &logger}
}

func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if l.zl != nil {
		l.zl.Log().Interface("audit", entry).Msg("audit")
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("ERROR: failed to marshal audit entry: %v", err)
		return
	}
	l.output.Println(string(data))
}

// LogSuccess records a completed operation.
func (l *Logger) LogSuccess(action, actor, resourceType, resourceID, ipAddress string, details map[string]string) {
	l.Log(Entry{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Status:       "success",
		Details:      details,
	})
}

// LogFailure records a rejected or failed operation.
func (l *Logger) LogFailure(action, actor, ipAddress string, details map[string]string) {
	l.Log(Entry{
		Action:    action,
		Actor:     actor,
		IPAddress: ipAddress,
		Status:    "failure",
		Details:   details,
	})
}
