package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithOp_AddsField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZap(zap.New(core))

	ctx := WithOp(context.Background(), "add_item")
	l.Infof(ctx, "added %d", 1)
	l.Info(context.Background(), "plain")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if got := entries[0].ContextMap()["op"]; got != "add_item" {
		t.Fatalf("op field = %v", got)
	}
	if entries[0].Message != "added 1" {
		t.Fatalf("message = %q", entries[0].Message)
	}
	if _, ok := entries[1].ContextMap()["op"]; ok {
		t.Fatalf("op field present without WithOp")
	}
}

func TestOp_Empty(t *testing.T) {
	if got := Op(context.Background()); got != "" {
		t.Fatalf("Op = %q", got)
	}
}

func TestNew_Validates(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for bad level")
	}
	if _, err := New(Config{Encoding: "xml"}); err == nil {
		t.Fatalf("expected error for bad encoding")
	}
	l, err := New(Config{Level: "warn", Encoding: "json", Mode: "development"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug(context.Background(), "dropped")
}
