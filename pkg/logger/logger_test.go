package logger

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Format: "json", Output: &buf})
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{"Error", ERROR},
		{"fatal", FATAL},
		{"nonsense", INFO},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(WARN)

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("INFO message written at WARN level: %s", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("WARN message missing: %s", out)
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newTestLogger(INFO)
	l.Debugf("before")
	l.SetLevel(DEBUG)
	l.Debugf("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("debug message logged before level change")
	}
	if !strings.Contains(out, "after") {
		t.Error("debug message missing after level change")
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newTestLogger(INFO)
	l.With("dataset").Infof("loaded")

	if !strings.Contains(buf.String(), `"component":"dataset"`) {
		t.Errorf("expected component field, got %s", buf.String())
	}
}

func TestFatalCallsExit(t *testing.T) {
	l, buf := newTestLogger(INFO)
	code := -1
	l.exitFn = func(c int) { code = c }

	l.Fatalf("boom: %s", "model")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "boom: model") {
		t.Errorf("fatal message missing: %s", buf.String())
	}
}

func TestShowCallerReportsCallSite(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: DEBUG, Format: "json", ShowCaller: true, Output: &buf})

	l.Infof("method %d", 1)
	l.Warn("plain")
	l.With("http").Errorf("child")

	Configure(Config{Level: DEBUG, Format: "json", ShowCaller: true, Output: &buf})
	t.Cleanup(func() { Configure(DefaultConfig()) })
	Infof("package %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 entries, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, `logger_test.go:`) {
			t.Errorf("caller does not name the test file: %s", line)
		}
		if strings.Contains(line, `logger/logger.go:`) {
			t.Errorf("caller points inside the logger: %s", line)
		}
	}
}
