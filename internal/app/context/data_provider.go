package context

import (
	"context"
	"fmt"
)

// Provider is a typed, keyed lookup that a RequestContext can memoise.
type Provider[T any] interface {
	// Key identifies the value within one request.
	Key() string

	// Fetch loads the value.
	Fetch(ctx context.Context) (T, error)
}

// Get returns p's value, fetching it at most once per RequestContext.
func Get[T any](rc *RequestContext, p Provider[T]) (T, error) {
	var zero T

	value, err := rc.GetOrFetch(p.Key(), func(ctx context.Context) (any, error) {
		return p.Fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("request cache key %q holds %T", p.Key(), value)
	}

	return typed, nil
}
