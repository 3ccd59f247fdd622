package acl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// ProfileServiceName names the hosted profile table in logs, errors and health checks.
const ProfileServiceName = "profiles"

// ProfileAdapter reads the paid flag from a PostgREST profile table.
type ProfileAdapter struct {
	BaseAdapter
	table string
}

// NewProfileAdapter creates an adapter over client. The client's BaseURL is
// the project URL and its headers must carry the service key, see
// ServiceKeyHeaders.
func NewProfileAdapter(client *clients.Client, table string) *ProfileAdapter {
	if table == "" {
		table = "profiles"
	}

	return &ProfileAdapter{
		BaseAdapter: NewBaseAdapter(client, ProfileServiceName),
		table:       table,
	}
}

// ServiceKeyHeaders returns the headers PostgREST expects from a service caller.
func ServiceKeyHeaders(serviceKey string) map[string]string {
	return map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
		"Accept":        "application/json",
	}
}

// externalProfileRow is one row of the profile table.
type externalProfileRow struct {
	ID              string `json:"id"`
	OverallUnlocked *bool  `json:"overall_unlocked"`
}

// OverallUnlocked implements ports.ProfileStore. A missing row or a null
// flag means the reader has not paid.
func (a *ProfileAdapter) OverallUnlocked(ctx context.Context, userID string) (bool, error) {
	if err := ValidateRequired(userID, "userID"); err != nil {
		return false, err
	}

	path := fmt.Sprintf("/rest/v1/%s?id=eq.%s&select=id,overall_unlocked",
		url.PathEscape(a.table), url.QueryEscape(userID))

	var rows []externalProfileRow
	if err := a.GetJSON(ctx, path, "get profile", userID, &rows); err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	unlocked, err := TranslateFirst(rows, "profile", userID, a.translateProfile)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return *unlocked, nil
}

func (a *ProfileAdapter) translateProfile(ext *externalProfileRow) (*bool, error) {
	unlocked := ext.OverallUnlocked != nil && *ext.OverallUnlocked

	return &unlocked, nil
}
