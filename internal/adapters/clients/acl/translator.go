package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// BaseAdapter provides common functionality for adapters built on
// clients.Client. Embed it in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// GetJSON performs a GET and decodes the body into dst.
// Failures come back as domain errors.
func (a *BaseAdapter) GetJSON(ctx context.Context, path, operation, entityID string, dst any) error {
	err := a.client.GetJSON(ctx, path, dst)
	if err != nil {
		return MapUpstreamError(err, a.serviceName, operation, entityID)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (a *BaseAdapter) Name() string {
	return a.serviceName
}

// Check implements ports.HealthChecker by reporting the client's circuit.
func (a *BaseAdapter) Check(ctx context.Context) error {
	return a.client.Check(ctx)
}

// DecodeJSON decodes model output into T. Code fences some models wrap
// JSON in are stripped first.
func DecodeJSON[T any](raw string) (*T, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	if text == "" {
		return nil, fmt.Errorf("decoding output: empty")
	}

	var result T
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("decoding output: %w", err)
	}

	return &result, nil
}

// ValidateRequired checks that a required field is not empty.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}

// Translator converts an upstream DTO to a domain type, validating as it goes.
type Translator[External any, Domain any] func(ext *External) (*Domain, error)

// TranslateFirst applies translate to the first item. An empty slice is a
// not found error for entity.
func TranslateFirst[E any, D any](items []E, entity, id string, translate Translator[E, D]) (*D, error) {
	if len(items) == 0 {
		return nil, domain.NewNotFoundError(entity, id)
	}

	return translate(&items[0])
}
