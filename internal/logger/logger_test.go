package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShouldLog(t *testing.T) {
	tests := []struct {
		current string
		level   string
		want    bool
	}{
		{"info", "error", true},
		{"info", "info", true},
		{"info", "debug", false},
		{"verbose", "debug", true},
		{"error", "warn", false},
		{"bogus", "info", true},
		{"bogus", "debug", false},
		{"info", "bogus", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"/"+tt.level, func(t *testing.T) {
			currentLogLevel = tt.current
			if got := shouldLog(tt.level); got != tt.want {
				t.Errorf("shouldLog(%q) at %q = %v, want %v", tt.level, tt.current, got, tt.want)
			}
		})
	}
}

func TestInitWithConfigWritesEnabledLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pricing.log")

	if err := InitWithConfig("info", path); err != nil {
		t.Fatalf("InitWithConfig failed: %v", err)
	}
	defer Close()

	Info.Printf("priced batch")
	Debug.Printf("hidden detail")
	Always.Printf("startup")

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "priced batch") {
		t.Errorf("expected info line in log, got %q", out)
	}
	if !strings.Contains(out, "startup") {
		t.Errorf("expected always line in log, got %q", out)
	}
	if strings.Contains(out, "hidden detail") {
		t.Errorf("debug line should be filtered at info level, got %q", out)
	}
}
