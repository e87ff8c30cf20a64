package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestLogger_RedactsEmails(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO, true)

	l.Info("sent", "recipient", "alice@corp.example", "note", "cc bob@corp.example please", "count", 3)

	var entry map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "sent", entry["msg"])
	assert.Equal(t, "al***@corp.example", entry["recipient"])
	assert.Equal(t, "cc bo***@corp.example please", entry["note"])
	assert.Equal(t, "3", entry["count"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN, false)
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Error("shown", "email", "alice@corp.example")
	assert.Contains(t, buf.String(), "alice@corp.example")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("Warning"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
}
