package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestID(t *testing.T) {
	id := NewRequestID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, NewRequestID())
}

func TestForContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	ctx := WithSessionID(WithRequestID(context.Background(), "req12345"), "sess-1")
	assert.Equal(t, "req12345", RequestIDFromContext(ctx))
	assert.Equal(t, "sess-1", SessionIDFromContext(ctx))

	l := ForContext(ctx)
	l.Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req12345", line["requestId"])
	assert.Equal(t, "sess-1", line["sessionId"])
}

func TestLogBodyTruncates(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogBody(l, "response", bytes.Repeat([]byte("x"), maxLoggedBody+50))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Len(t, line["response"], maxLoggedBody)
	assert.Equal(t, true, line["truncated"])
}

func TestLogBodySkipsAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.InfoLevel)
	LogBody(l, "request_body", []byte(`{"a":1}`))
	LogBody(l.Level(zerolog.DebugLevel), "request_body", nil)
	assert.Zero(t, buf.Len())
}
