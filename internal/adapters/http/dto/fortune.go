package dto

import (
	"encoding/json"

	"github.com/jsamuelsen/horoscope-service/internal/app"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// SignResponse is one entry of the zodiac catalogue.
type SignResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SignsResponse lists the catalogue in calendar order.
type SignsResponse struct {
	Signs []SignResponse `json:"signs"`
}

// NewSignsResponse converts the catalogue.
func NewSignsResponse(signs []domain.Sign) SignsResponse {
	out := make([]SignResponse, len(signs))
	for i, s := range signs {
		out[i] = SignResponse{Key: s.Key, Label: s.Label}
	}

	return SignsResponse{Signs: out}
}

// DateQuery is the optional ?date= parameter.
type DateQuery struct {
	Date string `form:"date" validate:"datekey"`
}

// DailyQuery holds the query of GET /fortunes/:sign.
type DailyQuery struct {
	Date   string `form:"date" validate:"datekey"`
	Source string `form:"source" validate:"omitempty,oneof=template llm"`
}

// FortuneResponse is a gated daily fortune. Full is omitted while locked.
type FortuneResponse struct {
	Date   string        `json:"date"`
	Sign   SignResponse  `json:"sign"`
	Source string        `json:"source"`
	Access string        `json:"access"`
	Locked bool          `json:"locked"`
	Digest domain.Digest `json:"digest"`
	Full   *domain.Full  `json:"full,omitempty"`
}

// NewFortuneResponse converts a FortuneView.
func NewFortuneResponse(v *app.FortuneView) FortuneResponse {
	resp := FortuneResponse{
		Date:   v.Fortune.Date,
		Sign:   SignResponse{Key: v.Sign.Key, Label: v.Sign.Label},
		Source: string(v.Source),
		Access: string(v.Access),
		Locked: v.Locked,
		Digest: v.Fortune.Digest,
	}

	if !v.Locked {
		full := v.Fortune.Full
		resp.Full = &full
	}

	return resp
}

// DigestEntry is one sign of the overview.
type DigestEntry struct {
	Sign   SignResponse  `json:"sign"`
	Digest domain.Digest `json:"digest"`
}

// OverviewResponse holds the twelve digests of one date.
type OverviewResponse struct {
	Date     string        `json:"date"`
	Fortunes []DigestEntry `json:"fortunes"`
}

// NewOverviewResponse converts the overview.
func NewOverviewResponse(dateKey string, digests []app.SignDigest) OverviewResponse {
	out := make([]DigestEntry, len(digests))
	for i, d := range digests {
		out[i] = DigestEntry{
			Sign:   SignResponse{Key: d.Sign.Key, Label: d.Sign.Label},
			Digest: d.Digest,
		}
	}

	return OverviewResponse{Date: dateKey, Fortunes: out}
}

// OracleRequest is the body of POST /fortune. Fields are checked by the
// handler so the endpoint can answer with its own error texts.
type OracleRequest struct {
	SignKey string `json:"signKey"`
	DateKey string `json:"dateKey"`
	Paid    bool   `json:"paid"`
}

// UnmarshalJSON reads the body leniently: a key holding the wrong JSON type
// reads as empty, and paid follows JavaScript truthiness.
func (r *OracleRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.SignKey, _ = raw["signKey"].(string)
	r.DateKey, _ = raw["dateKey"].(string)
	r.Paid = truthy(raw["paid"])

	return nil
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// OracleResponse is the success body of POST /fortune.
type OracleResponse struct {
	OK      bool          `json:"ok"`
	DateKey string        `json:"dateKey"`
	SignKey string        `json:"signKey"`
	Digest  domain.Digest `json:"digest"`
	Full    domain.Full   `json:"full"`
}

// NewOracleResponse converts a generated fortune.
func NewOracleResponse(f *domain.Fortune) OracleResponse {
	return OracleResponse{
		OK:      true,
		DateKey: f.Date,
		SignKey: f.SignKey,
		Digest:  f.Digest,
		Full:    f.Full,
	}
}

// OracleError is the error body of POST /fortune.
type OracleError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// NewOracleError creates the error body.
func NewOracleError(msg string) OracleError {
	return OracleError{OK: false, Error: msg}
}

// ReadingRequest is the body of POST /readings. AccessLevel is a hint; the
// server decides the level it writes.
type ReadingRequest struct {
	SchemaVersion string `json:"schema_version" validate:"omitempty,oneof=1.1"`
	DateKey       string `json:"date_key" validate:"required,datekey"`
	SignKey       string `json:"sign_key" validate:"required,signkey"`
	SignLabel     string `json:"sign_label"`
	AccessLevel   string `json:"access_level"`
	UserContext   string `json:"user_context" validate:"max=500"`
}
