package activitylog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferNeverExceedsLimit(t *testing.T) {
	b := NewBuffer(MaxEntries)

	for i := 0; i < 3*MaxEntries+7; i++ {
		b.Append(Entry{Message: fmt.Sprintf("line %d", i)})
		require.LessOrEqual(t, b.Len(), MaxEntries)
	}

	entries := b.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, fmt.Sprintf("line %d", 3*MaxEntries+7-MaxEntries), entries[0].Message)
	assert.Equal(t, fmt.Sprintf("line %d", 3*MaxEntries+6), entries[MaxEntries-1].Message)
}

func TestBufferClearNotifies(t *testing.T) {
	b := NewBuffer(0)
	changes := 0
	b.OnChange(func() { changes++ })

	b.Append(Entry{Message: "one"})
	b.Clear()

	assert.Zero(t, b.Len())
	assert.Equal(t, 2, changes)
}

func TestHandlerTeesIntoBuffer(t *testing.T) {
	var out bytes.Buffer
	next := slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: ReplaceLevel})
	b := NewBuffer(10)
	logger := slog.New(NewHandler(b, next)).With("component", "test")

	logger.Debug("quiet")
	logger.Log(context.Background(), LevelSuccess, "Meeting detected: Standup")
	logger.Error("Failed to check emails")

	entries := b.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "DEBUG", LevelName(entries[0].Level))
	assert.Equal(t, "SUCCESS", LevelName(entries[1].Level))
	assert.Equal(t, "ERROR", LevelName(entries[2].Level))

	assert.NotContains(t, out.String(), "quiet")
	assert.Contains(t, out.String(), "level=SUCCESS")
	assert.Contains(t, out.String(), "component=test")
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "INFO", LevelName(slog.LevelInfo))
	assert.Equal(t, "WARNING", LevelName(slog.LevelWarn))
}
