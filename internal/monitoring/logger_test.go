package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...any) {
		got = fmt.Sprintf(format, v...)
	})

	Logf("candidates=%d", 42)
	if got != "candidates=42" {
		t.Errorf("expected redirected log line, got %q", got)
	}
}

func TestSetLoggerNilMutes(t *testing.T) {
	SetLogger(nil)
	// Must not panic.
	Logf("muted %s", "line")
}

func TestDebugfRespectsVerbose(t *testing.T) {
	defer SetLogger(nil)
	defer SetVerbose(false)

	var lines int
	SetLogger(func(format string, v ...any) { lines++ })

	Debugf("hidden")
	if lines != 0 {
		t.Fatalf("Debugf wrote %d lines with verbose off", lines)
	}

	SetVerbose(true)
	Debugf("shown")
	if lines != 1 {
		t.Fatalf("expected 1 line with verbose on, got %d", lines)
	}
}
