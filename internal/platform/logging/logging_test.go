package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "info"},
		{in: "DEBUG", want: "debug"},
		{in: "detail", want: "debug"},
		{in: "warning", want: "warn"},
		{in: "error", want: "error"},
		{in: "loud", want: "info", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(&buf, Config{Level: "warn"})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	logger.Info("ribbon awarded", zap.String("code", "S1"))
	logger.Warn("no ribbon for code", zap.String("code", "ZZ"))
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "ribbon awarded") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "no ribbon for code") || !strings.Contains(out, "ZZ") {
		t.Fatalf("expected warn message with field: %q", out)
	}
}

func TestAwardLevel(t *testing.T) {
	if got := (Config{}).AwardLevel(); got != zap.DebugLevel {
		t.Fatalf("default award level = %s", got)
	}
	if got := (Config{Awards: true}).AwardLevel(); got != zap.InfoLevel {
		t.Fatalf("award level = %s", got)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
	logger := zap.NewExample()
	if OrNop(logger) != logger {
		t.Fatal("expected logger passthrough")
	}
}
