package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/zugferd/internal/logger"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logger.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"info", "info", false},
		{"upper case", "DEBUG", false},
		{"empty level", "", false},
		{"invalid", "loud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := logger.DefaultConfig()
			cfg.Level = tt.level
			_, err := logger.Setup(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSetup_FileOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	path := filepath.Join(t.TempDir(), "zugferd.log")
	l, err := logger.Setup(logger.LogConfig{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info().Msg("skipped")
	cl := logger.WithComponent("codec")
	cl.Warn().Str("invoice", "471102").Msg("tax type coerced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "codec", entry["component"])
	assert.Equal(t, "471102", entry["invoice"])
	assert.Equal(t, "tax type coerced", entry["message"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "console", "")
	l.Info().Str("profile", "COMFORT").Msg("loaded")

	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), "profile=COMFORT")
}
