package log

import "testing"

func TestNewLogrusLoggerLevels(t *testing.T) {
	l := newLogrusLogger(&Config{Level: "debug"})
	if !l.IsDebugEnabled() {
		t.Error("debug level not applied")
	}
	if l.IsTraceEnabled() {
		t.Error("trace should be disabled at debug level")
	}
}

func TestNewLogrusLoggerBadLevelFallsBack(t *testing.T) {
	l := newLogrusLogger(&Config{Level: "chatty"})
	if !l.IsInfoEnabled() {
		t.Error("expected info fallback for unknown level")
	}
	if l.IsDebugEnabled() {
		t.Error("unknown level must not enable debug")
	}
}

func TestWithFieldReturnsIndependentLogger(t *testing.T) {
	l := newLogrusLogger(&Config{Level: "info"})
	child := l.WithField("iface", "eth0")
	if child == nil {
		t.Fatal("WithField returned nil")
	}
	if _, ok := child.(*logrusLogger); !ok {
		t.Fatalf("unexpected logger type %T", child)
	}
	if child == Logger(l) {
		t.Error("WithField must not mutate the parent logger")
	}
}
