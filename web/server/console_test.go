package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, messageChan <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-messageChan:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
		return ConsoleMessage{}
	}
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan, zerolog.Nop())

	logger.Info().Msg("Test log message")

	msg := receive(t, messageChan)
	assert.Equal(t, "Test log message", msg.Message)
	assert.Equal(t, "info", msg.Level)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	assert.Empty(t, msg.Fields)
}

func TestWebLogger_LevelsAndFields(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan, zerolog.Nop())

	logger.Warn().Int("frame", 3).Str("scene", "classic").Msg("slow frame")

	msg := receive(t, messageChan)
	assert.Equal(t, "slow frame", msg.Message)
	assert.Equal(t, "warn", msg.Level)
	require.NotNil(t, msg.Fields)
	assert.Equal(t, float64(3), msg.Fields["frame"])
	assert.Equal(t, "classic", msg.Fields["scene"])
	assert.NotContains(t, msg.Fields, "time")
}

func TestWebLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-789", messageChan, zerolog.Nop())

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, m := range messages {
		logger.Info().Msg(m)
	}

	for _, expected := range messages {
		assert.Equal(t, expected, receive(t, messageChan).Message)
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-full", messageChan, zerolog.Nop())

	logger.Info().Msg("Message 1")
	// These must not block even though the channel is full
	logger.Info().Msg("Message 2")
	logger.Info().Msg("Message 3")

	assert.Equal(t, "Message 1", receive(t, messageChan).Message)
	assert.Len(t, messageChan, 0)
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil, zerolog.Nop())
	assert.NotPanics(t, func() {
		logger.Info().Msg("Test message with nil channel")
	})
}

func TestWebLogger_Mirror(t *testing.T) {
	var mirrored []map[string]interface{}
	mirror := zerolog.New(writerFunc(func(p []byte) (int, error) {
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(p, &event))
		mirrored = append(mirrored, event)
		return len(p), nil
	}))

	logger := NewWebLogger("render-1", nil, mirror)
	logger.Error().Int("band", 2).Msg("worker failed")

	require.Len(t, mirrored, 1)
	assert.Equal(t, "worker failed", mirrored[0]["message"])
	assert.Equal(t, "error", mirrored[0]["level"])
	assert.Equal(t, "render-1", mirrored[0]["render"])
	assert.Equal(t, float64(2), mirrored[0]["band"])
}

func TestParseConsoleMessage_NotJSON(t *testing.T) {
	msg := parseConsoleMessage([]byte("plain text\n"))
	assert.Equal(t, "plain text", msg.Message)
	assert.Equal(t, "info", msg.Level)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
