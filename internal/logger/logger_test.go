package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")

	log, err := New(path, "release")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("dataset loaded")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"dataset loaded"`) {
		t.Fatalf("expected JSON entry in log file, got %q", data)
	}
}

func TestNewWithoutFile(t *testing.T) {
	log, err := New("", "debug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("development logger should enable debug level")
	}
}
