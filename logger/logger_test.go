package logger

import (
	"errors"
	"testing"
	"time"
)

func TestFieldsBuildsMap(t *testing.T) {
	got := Fields("op", "search", "hits", 10)
	if got["op"] != "search" || got["hits"] != 10 {
		t.Errorf("unexpected fields: %v", got)
	}
}

func TestFieldsIgnoresDanglingKey(t *testing.T) {
	got := Fields("op", "search", "dangling")
	if _, ok := got["dangling"]; ok {
		t.Error("dangling key must be dropped")
	}
	if len(got) != 1 {
		t.Errorf("expected 1 field, got %d", len(got))
	}
}

func TestFieldsIgnoresNonStringKeys(t *testing.T) {
	got := Fields(42, "value", "ok", true)
	if len(got) != 1 || got["ok"] != true {
		t.Errorf("unexpected fields: %v", got)
	}
}

func TestErrorFields(t *testing.T) {
	got := ErrorFields("acquire", errors.New("boom"))
	if got[FieldOperation] != "acquire" || got[FieldError] != "boom" {
		t.Errorf("unexpected fields: %v", got)
	}
}

func TestDurationFields(t *testing.T) {
	got := DurationFields("query", 1500*time.Millisecond)
	if got[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration: %v", got[FieldDuration])
	}
}

func TestNewDefaultAndDerivedLoggers(t *testing.T) {
	log := NewDefault("chronos-test")
	if log == nil {
		t.Fatal("expected a logger")
	}

	derived := log.WithComponent("cache").WithFields(Fields("k", "v")).WithError(errors.New("x"))
	if derived == nil {
		t.Fatal("expected derived logger")
	}
	// Logging must not panic on any level helper.
	derived.Debug("debug")
	derived.Info("info", Fields("a", 1))
	derived.Warn("warn")
	derived.Error("error")
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level == "" || cfg.Format == "" || cfg.Output == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
