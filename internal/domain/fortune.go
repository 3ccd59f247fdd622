package domain

// Fortune is the daily reading for one sign on one date.
// Digest is the free part, Full is the part behind the paywall.
type Fortune struct {
	Date    string `json:"date"`
	SignKey string `json:"signKey"`
	Digest  Digest `json:"digest"`
	Full    Full   `json:"full"`
}

// Digest holds the short free-tier fields.
type Digest struct {
	Theme   string `json:"theme"`
	OneLine string `json:"oneLine"`
	Scores  Scores `json:"scores"`
	Tips    Tips   `json:"tips"`
}

// Scores are the per-axis star ratings.
type Scores struct {
	Overall int `json:"overall"`
	Love    int `json:"love"`
	Work    int `json:"work"`
	Money   int `json:"money"`
}

// Tips are the concrete suggestions for the day.
type Tips struct {
	Action  string `json:"action"`
	Caution string `json:"caution"`
	Lucky   Lucky  `json:"lucky"`
}

// Lucky is the lucky triple.
type Lucky struct {
	Color string `json:"color"`
	Item  string `json:"item"`
	Time  string `json:"time"`
}

// Full holds the long per-axis narratives.
type Full struct {
	Overall string `json:"overall"`
	Love    string `json:"love"`
	Work    string `json:"work"`
	Money   string `json:"money"`
}

// Star score bounds for fortunes. Every axis shares the same range.
const (
	MinStars = 1
	MaxStars = 5
)

// ClampScores forces every axis into [MinStars, MaxStars].
func (s Scores) ClampScores() Scores {
	return Scores{
		Overall: clampInt(s.Overall, MinStars, MaxStars),
		Love:    clampInt(s.Love, MinStars, MaxStars),
		Work:    clampInt(s.Work, MinStars, MaxStars),
		Money:   clampInt(s.Money, MinStars, MaxStars),
	}
}

// Source tells where a fortune's text came from.
type Source string

const (
	// SourceTemplate is the deterministic template generator.
	SourceTemplate Source = "template"

	// SourceLLM is the language model writer.
	SourceLLM Source = "llm"
)

// ParseSource maps a query value to a Source. Empty means fallback.
func ParseSource(s string, fallback Source) (Source, error) {
	switch Source(s) {
	case "":
		return fallback, nil
	case SourceTemplate, SourceLLM:
		return Source(s), nil
	default:
		return "", NewValidationErrorWithValue("source", "must be template or llm", s)
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
