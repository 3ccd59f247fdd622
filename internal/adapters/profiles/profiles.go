// Package profiles provides the ports.ProfileStore implementations and picks
// one from configuration.
package profiles

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// Driver names accepted in profiles.driver.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverREST     = "rest"
)

// NoneStore treats every reader as unpaid. It is used when no profile
// backend is configured.
type NoneStore struct{}

// OverallUnlocked implements ports.ProfileStore.
func (NoneStore) OverallUnlocked(context.Context, string) (bool, error) {
	return false, nil
}

// Store is a profile store that may also report health and hold resources.
type Store interface {
	ports.ProfileStore
	io.Closer
}

// New builds the store selected by cfg.Profiles.Driver. The returned
// checker is nil for the none driver.
func New(cfg *config.Config, logger *slog.Logger) (Store, ports.HealthChecker, error) {
	switch cfg.Profiles.Driver {
	case DriverPostgres:
		store, err := OpenPostgres(cfg.Profiles.DSN, cfg.Profiles.Table)
		if err != nil {
			return nil, nil, err
		}

		return store, store, nil

	case DriverREST:
		client, err := clients.New(&clients.Config{
			BaseURL:     cfg.Profiles.BaseURL,
			ServiceName: acl.ProfileServiceName,
			Timeout:     cfg.Client.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Headers:     acl.ServiceKeyHeaders(cfg.Profiles.ServiceKey),
			Logger:      logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating profile client: %w", err)
		}

		adapter := acl.NewProfileAdapter(client, cfg.Profiles.Table)

		return nopCloser{adapter}, adapter, nil

	case DriverNone, "":
		return nopCloser{NoneStore{}}, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown profiles driver %q", cfg.Profiles.Driver)
	}
}

type nopCloser struct {
	ports.ProfileStore
}

func (nopCloser) Close() error { return nil }
