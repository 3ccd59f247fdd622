package context

import (
	"context"
	"sync"
)

type ctxKey struct{}

// RequestContext holds memoised lookups and staged actions for one request.
type RequestContext struct {
	ctx       context.Context
	cache     sync.Map
	actions   []Action
	mu        sync.Mutex
	committed bool
}

// New creates a RequestContext bound to ctx.
func New(ctx context.Context) *RequestContext {
	return &RequestContext{ctx: ctx}
}

// FromContext returns the RequestContext stored in ctx, or nil.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}

	if rc, ok := ctx.Value(ctxKey{}).(*RequestContext); ok {
		return rc
	}

	return nil
}

// WithContext stores rc in ctx.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// Ensure returns the RequestContext in ctx, or a fresh one that memoises
// nothing beyond the current call.
func Ensure(ctx context.Context) *RequestContext {
	if rc := FromContext(ctx); rc != nil {
		return rc
	}

	return New(ctx)
}

// GetOrFetch returns the value cached under key, calling fetchFn on a miss.
// Errors are not cached.
func (rc *RequestContext) GetOrFetch(key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	if cached, ok := rc.cache.Load(key); ok {
		return cached, nil
	}

	value, err := fetchFn(rc.ctx)
	if err != nil {
		return nil, err
	}

	actual, _ := rc.cache.LoadOrStore(key, value)

	return actual, nil
}

// Context returns the context rc was created with.
func (rc *RequestContext) Context() context.Context {
	return rc.ctx
}
