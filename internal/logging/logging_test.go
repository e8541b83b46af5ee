package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   logrus.Level
	}{
		{"debug level", Config{Level: LevelDebug}, logrus.DebugLevel},
		{"info level", Config{Level: LevelInfo}, logrus.InfoLevel},
		{"warn level", Config{Level: LevelWarn}, logrus.WarnLevel},
		{"error level", Config{Level: LevelError}, logrus.ErrorLevel},
		{"unknown level", Config{Level: "loud"}, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.config)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})
	logger.WithComponent("parser").Info("hello")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "component=parser")

	buf.Reset()
	logger = New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	logger.WithComponent("parser").Info("hello")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "parser", entry["component"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestParse(t *testing.T) {
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}
