package domain

import (
	"regexp"
	"time"
)

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Sign is one of the twelve zodiac signs.
type Sign struct {
	// Key is the lowercase identifier used in URLs and seed inputs.
	Key string `json:"key"`

	// Label is the display name shown to readers.
	Label string `json:"label"`
}

var signs = []Sign{
	{Key: "aries", Label: "牡羊座"},
	{Key: "taurus", Label: "牡牛座"},
	{Key: "gemini", Label: "双子座"},
	{Key: "cancer", Label: "蟹座"},
	{Key: "leo", Label: "獅子座"},
	{Key: "virgo", Label: "乙女座"},
	{Key: "libra", Label: "天秤座"},
	{Key: "scorpio", Label: "蠍座"},
	{Key: "sagittarius", Label: "射手座"},
	{Key: "capricorn", Label: "山羊座"},
	{Key: "aquarius", Label: "水瓶座"},
	{Key: "pisces", Label: "魚座"},
}

// Signs returns the zodiac catalogue in calendar order.
// The returned slice is a copy.
func Signs() []Sign {
	out := make([]Sign, len(signs))
	copy(out, signs)

	return out
}

// SignKeys returns the twelve sign keys in calendar order.
func SignKeys() []string {
	keys := make([]string, len(signs))
	for i, s := range signs {
		keys[i] = s.Key
	}

	return keys
}

// LookupSign finds a sign by key.
func LookupSign(key string) (Sign, bool) {
	for _, s := range signs {
		if s.Key == key {
			return s, true
		}
	}

	return Sign{}, false
}

// IsSignKey reports whether key names one of the twelve signs.
func IsSignKey(key string) bool {
	_, ok := LookupSign(key)
	return ok
}

// ParseSign resolves a sign key or returns a validation error.
func ParseSign(key string) (Sign, error) {
	s, ok := LookupSign(key)
	if !ok {
		return Sign{}, NewValidationErrorWithValue("signKey", "unknown zodiac sign", key)
	}

	return s, nil
}

// ParseDateKey checks that s is a YYYY-MM-DD calendar date.
func ParseDateKey(s string) (time.Time, error) {
	if !dateKeyPattern.MatchString(s) {
		return time.Time{}, NewValidationErrorWithValue("dateKey", "must be formatted YYYY-MM-DD", s)
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationErrorWithValue("dateKey", "not a calendar date", s)
	}

	return t, nil
}

// DateKey formats t as a date key in loc. A nil loc means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format(DateLayout)
}
