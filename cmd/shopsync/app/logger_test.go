package app

import (
	"testing"
)

// TestDetermineLogLevel verifies the level precedence rules.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "default",
			config: Config{},
			want:   "info",
		},
		{
			name:   "explicit log level wins",
			config: Config{LogLevel: "trace", Verbose: true, Quiet: true},
			want:   "trace",
		},
		{
			name:   "invalid explicit level falls back",
			config: Config{LogLevel: "loud"},
			want:   "info",
		},
		{
			name:   "verbose shortcut",
			config: Config{Verbose: true},
			want:   "debug",
		},
		{
			name:   "quiet shortcut",
			config: Config{Quiet: true},
			want:   "warn",
		},
		{
			name:   "quiet beats verbose",
			config: Config{Verbose: true, Quiet: true},
			want:   "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := determineLogLevel(&tt.config); got != tt.want {
				t.Errorf("determineLogLevel() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestNewLogger verifies a logger can be built from config without panic.
func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{LogFormat: "json", LogOutput: "stderr", Verbose: true})
	logger.Debug().Msg("logger smoke test")
}
