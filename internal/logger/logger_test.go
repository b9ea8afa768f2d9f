package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Info("test message", slog.String("key", "value"), slog.Int("number", 42))

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg to be 'test message', got '%v'", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key to be 'value', got '%v'", logEntry["key"])
	}
	if logEntry["number"] != float64(42) {
		t.Errorf("Expected number to be 42, got '%v'", logEntry["number"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level to be 'INFO', got '%v'", logEntry["level"])
	}
	if _, ok := logEntry["time"]; !ok {
		t.Error("Expected 'time' field in JSON log output")
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer

	New(&quiet, false).Debug("hidden")
	New(&verbose, true).Debug("shown")

	if quiet.Len() != 0 {
		t.Errorf("Expected no debug output outside debug mode, got %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), `"level":"DEBUG"`) {
		t.Errorf("Expected a DEBUG record in debug mode, got %q", verbose.String())
	}
}

// TestInitJSONLogger_OutputFormat verifies that InitJSONLogger sets up
// JSON formatted output for slog on stdout.
func TestInitJSONLogger_OutputFormat(t *testing.T) {
	oldStdout := os.Stdout
	oldDefault := slog.Default()
	defer slog.SetDefault(oldDefault)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	InitJSONLogger(false)
	slog.Info("test initialization", slog.String("service", "product-service"), slog.Int("port", 8080))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("Failed to read from pipe: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if logEntry["msg"] != "test initialization" {
		t.Errorf("Expected msg to be 'test initialization', got '%v'", logEntry["msg"])
	}
	if logEntry["service"] != "product-service" {
		t.Errorf("Expected service to be 'product-service', got '%v'", logEntry["service"])
	}
	if logEntry["port"] != float64(8080) {
		t.Errorf("Expected port to be 8080, got '%v'", logEntry["port"])
	}
}
