package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	Info("no-op before Init")
	Sync()
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("loud", "json", "stdout"); err == nil {
		t.Fatal("expected invalid level error")
	}
	if _, err := New("info", "xml", "stdout"); err == nil {
		t.Fatal("expected invalid format error")
	}
}

func TestInitWritesJSONToFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	if err := Init("debug", "json", path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("dataset analyzed")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"dataset analyzed"`) {
		t.Fatalf("unexpected log output: %s", data)
	}
	if !strings.Contains(string(data), "logger_test.go") {
		t.Fatalf("expected caller to point at the test, got: %s", data)
	}
}
