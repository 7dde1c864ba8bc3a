package server

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"` // "debug", "info", "warn", "error"
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// WebLogger is a zerolog writer that forwards every log line to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	mirror      zerolog.Logger
}

// NewWebLogger creates a logger for a specific render. Each event is sent to consoleChan
// and repeated on mirror so it also reaches the server log.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, mirror zerolog.Logger) zerolog.Logger {
	wl := &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		mirror:      mirror.With().Str("render", renderID).Logger(),
	}
	return zerolog.New(wl).With().Timestamp().Logger()
}

// Write implements io.Writer for a single zerolog JSON event
func (wl *WebLogger) Write(p []byte) (int, error) {
	msg := parseConsoleMessage(p)

	level, err := zerolog.ParseLevel(msg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	wl.mirror.WithLevel(level).Fields(msg.Fields).Msg(msg.Message)

	// Send to web console if channel is available (non-blocking)
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- msg:
		default:
			// Channel full, skip (don't block)
		}
	}
	return len(p), nil
}

func parseConsoleMessage(p []byte) ConsoleMessage {
	msg := ConsoleMessage{Timestamp: time.Now(), Level: zerolog.InfoLevel.String()}

	var event map[string]interface{}
	if err := json.Unmarshal(p, &event); err != nil {
		msg.Message = strings.TrimSpace(string(p))
		return msg
	}

	if m, ok := event[zerolog.MessageFieldName].(string); ok {
		msg.Message = m
	}
	if l, ok := event[zerolog.LevelFieldName].(string); ok {
		msg.Level = l
	}
	delete(event, zerolog.MessageFieldName)
	delete(event, zerolog.LevelFieldName)
	delete(event, zerolog.TimestampFieldName)
	if len(event) > 0 {
		msg.Fields = event
	}
	return msg
}
