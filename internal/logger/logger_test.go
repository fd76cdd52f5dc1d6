package logger

import (
	"bytes"
	"os"
	"testing"
	"time"
)

func reset() {
	SetVerbose(false)
	SetTimestamps(false)
	SetOutput(os.Stderr)
}

func TestLevels(t *testing.T) {
	emit := func() {
		Debug("d %d", 1)
		Info("i %s", "x")
		Warn("w")
		Error("e")
	}

	tests := []struct {
		name  string
		level Level
		want  string
	}{
		{"debug", LevelDebug, "[DEBUG] d 1\n[INFO] i x\n[WARN] w\n[ERROR] e\n"},
		{"info", LevelInfo, "[INFO] i x\n[WARN] w\n[ERROR] e\n"},
		{"warn", LevelWarn, "[WARN] w\n[ERROR] e\n"},
		{"error", LevelError, "[ERROR] e\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer reset()
			var buf bytes.Buffer
			SetOutput(&buf)
			SetLevel(tt.level)

			emit()

			if got := buf.String(); got != tt.want {
				t.Errorf("level %s: got %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestSetVerbose_TogglesDebug(t *testing.T) {
	defer reset()

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("SetVerbose(true) did not enable debug")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Fatal("SetVerbose(false) left debug enabled")
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Error("sync failed: %v", "boom")

	if got := buf.String(); got != "[ERROR] sync failed: boom\n" {
		t.Errorf("unexpected error output: %q", got)
	}
}

func TestTimestamps(t *testing.T) {
	defer reset()
	defer func() { now = time.Now }()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)
	SetTimestamps(true)
	now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	Info("tick")

	if got := buf.String(); got != "2025-01-02T03:04:05Z [INFO] tick\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Test Section")

	if got := buf.String(); got != "\n=== Test Section ===\n" {
		t.Errorf("unexpected section output: %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
