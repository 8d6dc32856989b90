package logger

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	l := Get()
	if l == nil {
		t.Fatal("logger is nil after initialization")
	}

	named := l.Named("capture")
	if named == nil {
		t.Fatal("named logger is nil")
	}
}

func TestLoggerFields(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	l := Get()
	l.Info(ctx, "session opened",
		String("sessionID", "s-1"),
		Int("expected", 30),
		Float64("confidence", 0.91),
		Bool("reopened", false),
		Duration("cooldown", 30*time.Second),
		Time("openedAt", time.Now()),
		Any("slot", struct{ Day int }{1}),
	)
	l.Warn(ctx, "check-in failed", Error(errors.New("boom")))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q) returned error: %v", lvl, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
