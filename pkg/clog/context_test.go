package clog

import (
	"context"
	"errors"
	"testing"
)

func TestContextAttributes(t *testing.T) {
	ctx := ContextWithSlog(context.Background())

	AddAttribute(ctx, "task_id", "t1")
	AddAttributes(ctx, map[string]any{"attempt": 2})

	if got := GetAttribute[string](ctx, "task_id"); got != "t1" {
		t.Errorf("task_id = %q, want t1", got)
	}
	if got := GetAttribute[int](ctx, "attempt"); got != 2 {
		t.Errorf("attempt = %d, want 2", got)
	}
	if got := GetAttribute[string](ctx, "missing"); got != "" {
		t.Errorf("missing = %q, want empty", got)
	}
	// Wrong type lookups return the zero value instead of panicking.
	if got := GetAttribute[int](ctx, "task_id"); got != 0 {
		t.Errorf("mistyped lookup = %d, want 0", got)
	}
	if attrs := GetAttributes(ctx); len(attrs) != 2 {
		t.Errorf("len(attrs) = %d, want 2", len(attrs))
	}
}

func TestContextWithoutSlogIsNoop(t *testing.T) {
	ctx := context.Background()
	AddAttribute(ctx, "key", "value")
	if got := GetAttributes(ctx); got != nil {
		t.Errorf("attributes = %v, want nil", got)
	}
}

func TestErrorAndStackHelpers(t *testing.T) {
	ctx := ContextWithSlog(context.Background())

	err := errors.New("boom")
	AddError(ctx, err)
	AddStack(ctx, "goroutine 1")

	if got := GetError(ctx); !errors.Is(got, err) {
		t.Errorf("GetError = %v, want %v", got, err)
	}
	if got := GetStack(ctx); got != "goroutine 1" {
		t.Errorf("GetStack = %q", got)
	}
}

func TestHTTPStatusToLevel(t *testing.T) {
	tests := []struct {
		status   int
		expected Level
	}{
		{200, LevelInfo},
		{302, LevelInfo},
		{404, LevelWarn},
		{499, LevelInfo},
		{500, LevelError},
	}
	for _, tt := range tests {
		if got := HTTPStatusToLevel(tt.status); got != tt.expected {
			t.Errorf("HTTPStatusToLevel(%d) = %v, want %v", tt.status, got, tt.expected)
		}
	}
}
