package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		wantLevel     logrus.Level
		wantJSON      bool
	}{
		{"debug", "json", logrus.DebugLevel, true},
		{"warn", "text", logrus.WarnLevel, false},
		{"nonsense", "", logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		log := New(tt.level, tt.format)
		if log.GetLevel() != tt.wantLevel {
			t.Errorf("New(%q).GetLevel() = %v, want %v", tt.level, log.GetLevel(), tt.wantLevel)
		}
		_, isJSON := log.Formatter.(*logrus.JSONFormatter)
		if isJSON != tt.wantJSON {
			t.Errorf("New(_, %q) json formatter = %v, want %v", tt.format, isJSON, tt.wantJSON)
		}
	}
}
