package context

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/horoscope-service/internal/platform/logging"
)

// rollbackTimeout bounds the undo work once the request itself is gone.
const rollbackTimeout = 5 * time.Second

// Action is a staged write.
type Action interface {
	// Execute performs the write.
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute.
	Rollback(ctx context.Context) error

	// Description names the action in logs and errors.
	Description() string
}

// AddAction stages action for Commit.
func (rc *RequestContext) AddAction(action Action) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}

	rc.actions = append(rc.actions, action)

	return nil
}

// Commit executes the staged actions in order. When one fails, the actions
// already executed are rolled back in reverse order and the failure is
// returned wrapped. Rollback failures are logged, not returned.
//
// Rollback runs on a context detached from ctx's cancellation, so a client
// disconnect after a debit still gets its refund.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}

	rc.committed = true

	for i, action := range rc.actions {
		if err := action.Execute(ctx); err != nil {
			rollback(ctx, rc.actions[:i])
			return fmt.Errorf("action %q failed: %w", action.Description(), err)
		}
	}

	return nil
}

func rollback(parent context.Context, executed []Action) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), rollbackTimeout)
	defer cancel()

	logger := logging.FromContext(ctx)

	for i := len(executed) - 1; i >= 0; i-- {
		if err := executed[i].Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("action", executed[i].Description()),
				slog.Any("error", err),
			)

			continue
		}

		logger.WarnContext(ctx, "action rolled back", slog.String("action", executed[i].Description()))
	}
}

// Actions returns a copy of the staged actions.
func (rc *RequestContext) Actions() []Action {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	result := make([]Action, len(rc.actions))
	copy(result, rc.actions)

	return result
}
