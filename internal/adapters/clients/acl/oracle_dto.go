package acl

import (
	"strings"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// Raw model output. Star ratings are decoded as float64 so "3.0" or "4.7"
// from a loose model still parses; they are clamped on translation.

type rawFortune struct {
	Digest struct {
		Theme   string `json:"theme"`
		OneLine string `json:"oneLine"`
		Scores  struct {
			Overall float64 `json:"overall"`
			Love    float64 `json:"love"`
			Work    float64 `json:"work"`
			Money   float64 `json:"money"`
		} `json:"scores"`
		Tips struct {
			Action  string `json:"action"`
			Caution string `json:"caution"`
			Lucky   struct {
				Color string `json:"color"`
				Item  string `json:"item"`
				Time  string `json:"time"`
			} `json:"lucky"`
		} `json:"tips"`
	} `json:"digest"`
	Full struct {
		Overall string `json:"overall"`
		Love    string `json:"love"`
		Work    string `json:"work"`
		Money   string `json:"money"`
	} `json:"full"`
}

type rawReading struct {
	SchemaVersion string `json:"schema_version"`
	Free          *struct {
		OneLine string       `json:"one_line"`
		Lucky   rawLuckyPair `json:"lucky"`
	} `json:"free"`
	Paid *struct {
		Overall rawCategory  `json:"overall"`
		Love    rawCategory  `json:"love"`
		Work    rawCategory  `json:"work"`
		Money   rawCategory  `json:"money"`
		Lucky   rawLuckyPair `json:"lucky"`
	} `json:"paid"`
}

type rawLuckyPair struct {
	Color string `json:"color"`
	Item  string `json:"item"`
}

type rawCategory struct {
	Stars5  float64  `json:"stars_5"`
	Axis    string   `json:"axis"`
	Summary string   `json:"summary"`
	Do      []string `json:"do"`
	Dont    []string `json:"dont"`
	IfThen  []struct {
		If   string `json:"if"`
		Then string `json:"then"`
	} `json:"if_then"`
	Why      string  `json:"why"`
	Template *string `json:"template"`
}

// translateFortune builds a domain fortune for sign and dateKey. The
// identifying fields always come from the request, never from the model.
func translateFortune(raw *rawFortune, signKey, dateKey string) (*domain.Fortune, error) {
	d := raw.Digest
	if strings.TrimSpace(d.OneLine) == "" {
		return nil, domain.NewValidationError("digest.oneLine", "missing from model output")
	}

	if strings.TrimSpace(d.Theme) == "" {
		return nil, domain.NewValidationError("digest.theme", "missing from model output")
	}

	scores := domain.Scores{
		Overall: domain.ClampStars(d.Scores.Overall),
		Love:    domain.ClampStars(d.Scores.Love),
		Work:    domain.ClampStars(d.Scores.Work),
		Money:   domain.ClampStars(d.Scores.Money),
	}

	return &domain.Fortune{
		Date:    dateKey,
		SignKey: signKey,
		Digest: domain.Digest{
			Theme:   d.Theme,
			OneLine: d.OneLine,
			Scores:  scores.ClampScores(),
			Tips: domain.Tips{
				Action:  d.Tips.Action,
				Caution: d.Tips.Caution,
				Lucky: domain.Lucky{
					Color: d.Tips.Lucky.Color,
					Item:  d.Tips.Lucky.Item,
					Time:  d.Tips.Lucky.Time,
				},
			},
		},
		Full: domain.Full{
			Overall: raw.Full.Overall,
			Love:    raw.Full.Love,
			Work:    raw.Full.Work,
			Money:   raw.Full.Money,
		},
	}, nil
}

// translateReading converts and normalises a reading for level. Meta from
// the model is discarded and replaced with meta.
func translateReading(raw *rawReading, level domain.AccessLevel, meta domain.ReadingMeta) (*domain.Reading, error) {
	reading := &domain.Reading{SchemaVersion: raw.SchemaVersion}

	if raw.Free != nil {
		reading.Free = &domain.FreeReading{
			OneLine: raw.Free.OneLine,
			Lucky:   domain.LuckyPair(raw.Free.Lucky),
		}
	}

	if raw.Paid != nil {
		reading.Paid = &domain.PaidReading{
			Overall: translateCategory(raw.Paid.Overall),
			Love:    translateCategory(raw.Paid.Love),
			Work:    translateCategory(raw.Paid.Work),
			Money:   translateCategory(raw.Paid.Money),
			Lucky:   domain.LuckyPair(raw.Paid.Lucky),
		}
	}

	if err := reading.Normalize(level, meta); err != nil {
		return nil, err
	}

	return reading, nil
}

func translateCategory(raw rawCategory) domain.Category {
	c := domain.Category{
		Stars5:  domain.ClampStars(raw.Stars5),
		Axis:    raw.Axis,
		Summary: raw.Summary,
		Do:      raw.Do,
		Dont:    raw.Dont,
		IfThen:  make([]domain.IfThen, 0, len(raw.IfThen)),
		Why:     raw.Why,
	}

	for _, it := range raw.IfThen {
		c.IfThen = append(c.IfThen, domain.IfThen{If: it.If, Then: it.Then})
	}

	if raw.Template != nil {
		c.Template = *raw.Template
	}

	return c
}
