package trellis

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		cfg      LoggingConfig
		debugOn  bool
		infoOn   bool
		warnOnly bool
	}{
		{"json debug", LoggingConfig{Level: "debug", Format: "json"}, true, true, false},
		{"console info", LoggingConfig{Level: "info", Format: "console"}, false, true, false},
		{"warn", LoggingConfig{Level: "warn"}, false, false, true},
		{"bad level falls back to info", LoggingConfig{Level: "loud"}, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewLogger(tt.cfg)
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			core := log.Core()
			if got := core.Enabled(zapcore.DebugLevel); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := core.Enabled(zapcore.InfoLevel); got != tt.infoOn {
				t.Errorf("info enabled = %v, want %v", got, tt.infoOn)
			}
			if tt.warnOnly && !core.Enabled(zapcore.WarnLevel) {
				t.Error("warn should be enabled")
			}
		})
	}
}
