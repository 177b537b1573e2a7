package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Fatal("expected quiet mode")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose mode")
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func()
		want    string
	}{
		{"debug verbose", true, func() { Debug("fetched %s", "spring.docx") }, "[DEBUG] fetched spring.docx\n"},
		{"debug quiet", false, func() { Debug("fetched %s", "spring.docx") }, ""},
		{"info verbose", true, func() { Info("ingested %d newsletters", 12) }, "[INFO] ingested 12 newsletters\n"},
		{"info quiet", false, func() { Info("ingested %d newsletters", 12) }, ""},
		{"section verbose", true, func() { Section("Ingest") }, "\n=== Ingest ===\n"},
		{"section quiet", false, func() { Section("Ingest") }, ""},
		{"warn quiet", false, func() { Warn("manifest unavailable") }, "[WARN] manifest unavailable\n"},
		{"warn verbose", true, func() { Warn("manifest unavailable") }, "[WARN] manifest unavailable\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.verbose)
			tt.log()
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(i%2 == 0)
			Debug("worker %d", i)
			Event(context.Background(), slog.LevelInfo, "worker", "n", i)
			_ = IsVerbose()
		}()
	}
	wg.Wait()
}

func TestEvent_WarnAlwaysWritten(t *testing.T) {
	buf := capture(t, false)

	Event(context.Background(), slog.LevelWarn, "ingest failed", "identifier", "spring.docx", "kind", "fetch")

	for _, want := range []string{"level=WARN", `msg="ingest failed"`, "identifier=spring.docx", "kind=fetch"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %q missing %q", buf.String(), want)
		}
	}
}

func TestEvent_DebugNeedsVerbose(t *testing.T) {
	buf := capture(t, false)

	Event(context.Background(), slog.LevelDebug, "converted", "identifier", "a.md")
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output, got %q", buf.String())
	}

	SetVerbose(true)
	Event(context.Background(), slog.LevelDebug, "converted", "identifier", "a.md")
	if !strings.Contains(buf.String(), "identifier=a.md") {
		t.Errorf("expected debug event when verbose, got %q", buf.String())
	}
}
