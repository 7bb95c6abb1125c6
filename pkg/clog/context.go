package clog

import (
	"context"
	"sync"
)

// logContext accumulates attributes for a single request so that every log
// record emitted within the request carries them.
type logContext struct {
	mu         sync.RWMutex
	attributes map[string]any
}

type logContextKey struct{}

// ContextWithSlog attaches an empty attribute set to ctx. Attributes added
// later via AddAttribute are picked up by AttributesHandler.
func ContextWithSlog(ctx context.Context) context.Context {
	return context.WithValue(ctx, logContextKey{}, &logContext{
		attributes: make(map[string]any),
	})
}

func fromContext(ctx context.Context) *logContext {
	lc, _ := ctx.Value(logContextKey{}).(*logContext)
	return lc
}

// AddAttribute records a single attribute on the context. A no-op when the
// context was not prepared with ContextWithSlog.
func AddAttribute(ctx context.Context, key string, value any) {
	lc := fromContext(ctx)
	if lc == nil {
		return
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.attributes[key] = value
}

// AddAttributes records several attributes at once.
func AddAttributes(ctx context.Context, attributes map[string]any) {
	lc := fromContext(ctx)
	if lc == nil {
		return
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	for k, v := range attributes {
		lc.attributes[k] = v
	}
}

// GetAttribute returns the attribute stored under key, or the zero value when
// absent or of a different type.
func GetAttribute[T any](ctx context.Context, key string) T {
	lc := fromContext(ctx)
	if lc == nil {
		return *new(T)
	}
	lc.mu.RLock()
	v, ok := lc.attributes[key]
	lc.mu.RUnlock()
	if !ok {
		return *new(T)
	}
	typed, ok := v.(T)
	if !ok {
		return *new(T)
	}
	return typed
}

// GetAttributes returns a copy of all attributes recorded on ctx.
func GetAttributes(ctx context.Context) map[string]any {
	lc := fromContext(ctx)
	if lc == nil {
		return nil
	}
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	copied := make(map[string]any, len(lc.attributes))
	for k, v := range lc.attributes {
		copied[k] = v
	}
	return copied
}

const (
	ErrorAttributeKey = "error.message"
	StackAttributeKey = "error.stack"
)

func AddError(ctx context.Context, err error) {
	AddAttribute(ctx, ErrorAttributeKey, err)
}

func GetError(ctx context.Context) error {
	return GetAttribute[error](ctx, ErrorAttributeKey)
}

func AddStack(ctx context.Context, stack string) {
	AddAttribute(ctx, StackAttributeKey, stack)
}

func GetStack(ctx context.Context) string {
	return GetAttribute[string](ctx, StackAttributeKey)
}
