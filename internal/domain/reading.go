package domain

import (
	"math"
	"strings"
)

// AccessLevel separates what anyone may read from what a paying reader may read.
type AccessLevel string

const (
	// AccessFree is the default level.
	AccessFree AccessLevel = "free"

	// AccessPaid unlocks the full reading.
	AccessPaid AccessLevel = "paid"
)

// ParseAccessLevel treats anything other than "paid" as free.
// The result is a hint only; the server decides the effective level.
func ParseAccessLevel(s string) AccessLevel {
	if strings.EqualFold(strings.TrimSpace(s), string(AccessPaid)) {
		return AccessPaid
	}

	return AccessFree
}

// Reading constants for the structured schema.
const (
	ReadingSchemaVersion = "1.1"
	ReadingLocale        = "ja-JP"
	ReadingTone          = "A"
)

// Reading is a structured, schema-validated reading. Exactly one of Free and
// Paid is set, matching Meta.AccessLevel.
type Reading struct {
	SchemaVersion string       `json:"schema_version"`
	Meta          ReadingMeta  `json:"meta"`
	Free          *FreeReading `json:"free,omitempty"`
	Paid          *PaidReading `json:"paid,omitempty"`
}

// ReadingMeta identifies what a reading was written for.
type ReadingMeta struct {
	DateKey     string      `json:"date_key"`
	SignKey     string      `json:"sign_key"`
	SignLabel   string      `json:"sign_label"`
	AccessLevel AccessLevel `json:"access_level"`
	Locale      string      `json:"locale"`
	Tone        string      `json:"tone"`
}

// NewReadingMeta fills the fixed locale and tone.
func NewReadingMeta(dateKey string, sign Sign, level AccessLevel) ReadingMeta {
	return ReadingMeta{
		DateKey:     dateKey,
		SignKey:     sign.Key,
		SignLabel:   sign.Label,
		AccessLevel: level,
		Locale:      ReadingLocale,
		Tone:        ReadingTone,
	}
}

// FreeReading is the free variant: one line and a lucky pair.
type FreeReading struct {
	OneLine string    `json:"one_line"`
	Lucky   LuckyPair `json:"lucky"`
}

// LuckyPair is a lucky colour and item.
type LuckyPair struct {
	Color string `json:"color"`
	Item  string `json:"item"`
}

// PaidReading is the paid variant with four categories.
type PaidReading struct {
	Overall Category  `json:"overall"`
	Love    Category  `json:"love"`
	Work    Category  `json:"work"`
	Money   Category  `json:"money"`
	Lucky   LuckyPair `json:"lucky"`
}

// Category is one axis of a paid reading.
type Category struct {
	Stars5   int      `json:"stars_5"`
	Axis     string   `json:"axis"`
	Summary  string   `json:"summary"`
	Do       []string `json:"do"`
	Dont     []string `json:"dont"`
	IfThen   []IfThen `json:"if_then"`
	Why      string   `json:"why"`
	Template string   `json:"template,omitempty"`
}

// IfThen is a conditional suggestion.
type IfThen struct {
	If   string `json:"if"`
	Then string `json:"then"`
}

// ClampStars truncates v and clamps it to [0,5]. NaN and infinities become 0.
func ClampStars(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return clampInt(int(math.Trunc(max(-1, min(6, v)))), 0, 5)
}

// Normalize checks the reading against level, clamps star ratings, drops the
// payload that does not belong to level and stamps meta.
func (r *Reading) Normalize(level AccessLevel, meta ReadingMeta) error {
	if r.SchemaVersion != ReadingSchemaVersion {
		return NewValidationErrorWithValue("schema_version", "schema_version mismatch", r.SchemaVersion)
	}

	switch level {
	case AccessFree:
		if r.Free == nil || strings.TrimSpace(r.Free.OneLine) == "" {
			return NewValidationError("free.one_line", "missing")
		}

		if r.Free.Lucky.Color == "" || r.Free.Lucky.Item == "" {
			return NewValidationError("free.lucky", "missing")
		}

		r.Paid = nil
	case AccessPaid:
		if r.Paid == nil {
			return NewValidationError("paid", "paid fields missing")
		}

		for _, c := range []*Category{&r.Paid.Overall, &r.Paid.Love, &r.Paid.Work, &r.Paid.Money} {
			c.Stars5 = clampInt(c.Stars5, 0, 5)
		}

		if r.Paid.Lucky.Color == "" || r.Paid.Lucky.Item == "" {
			return NewValidationError("paid.lucky", "missing")
		}

		r.Free = nil
	default:
		return NewValidationErrorWithValue("access_level", "unknown access level", level)
	}

	meta.AccessLevel = level
	r.Meta = meta

	return nil
}
