package acl

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// upstreamBody covers both error shapes the service meets: PostgREST's flat
// {"code","message","hint"} and OpenAI's nested {"error":{...}}.
type upstreamBody struct {
	Nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (b *upstreamBody) code() string { return cmp.Or(b.Nested.Code, b.Code) }
func (b *upstreamBody) message() string { return cmp.Or(b.Nested.Message, b.Message) }

// parseUpstreamBody returns nil unless body is JSON with a code or message.
func parseUpstreamBody(body []byte) *upstreamBody {
	var b upstreamBody
	if len(body) == 0 || json.Unmarshal(body, &b) != nil {
		return nil
	}

	if b.code() == "" && b.message() == "" {
		return nil
	}

	return &b
}

// MapUpstreamError translates an error from an upstream call into a domain
// error. Errors that already are domain errors pass through unchanged.
func MapUpstreamError(err error, serviceName, operation, entityID string) error {
	if err == nil {
		return nil
	}

	if isDomainError(err) {
		return err
	}

	var (
		statusErr *clients.StatusError
		apiErr    *openai.Error
	)

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s timed out", operation))

	case errors.As(err, &statusErr):
		return mapStatusCode(statusErr.StatusCode, parseUpstreamBody([]byte(statusErr.Body)),
			serviceName, operation, entityID)

	case errors.As(err, &apiErr):
		return mapStatusCode(apiErr.StatusCode, &upstreamBody{Code: apiErr.Code, Message: apiErr.Message},
			serviceName, operation, entityID)

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatusCode translates HTTP status codes to domain errors.
func mapStatusCode(status int, body *upstreamBody, serviceName, operation, entityID string) error {
	message := defaultMessageForStatus(status, operation)
	if body != nil && body.message() != "" {
		message = fmt.Sprintf("%d %s", status, body.message())
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, entityID)

	case http.StatusUnauthorized, http.StatusForbidden:
		// Our own credentials were rejected; the caller can do nothing about it.
		return domain.NewUnavailableError(serviceName, "credentials rejected: "+message)

	default:
		return domain.NewUnavailableError(serviceName, message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}

func isDomainError(err error) bool {
	for _, is := range []func(error) bool{
		domain.IsNotFound, domain.IsConflict, domain.IsValidation,
		domain.IsForbidden, domain.IsUnauthorized, domain.IsUnavailable,
	} {
		if is(err) {
			return true
		}
	}
	return false
}
