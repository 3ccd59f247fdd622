package fortune

import "github.com/jsamuelsen/horoscope-service/internal/domain"

// seedPlan holds the seed input of every field of one fortune.
// Each value must be distinct; tests enforce it.
type seedPlan struct {
	Theme        string
	OneLine      string
	OverallStars string
	LoveStars    string
	WorkStars    string
	MoneyStars   string
	Action       string
	Caution      string
	LuckyColor   string
	LuckyItem    string
	LuckyTime    string
	OverallText  string
	LoveText     string
	WorkText     string
	MoneyText    string
}

// BaseKey is the shared part of every seed input for (signKey, dateKey).
func BaseKey(signKey, dateKey string) string {
	return dateKey + "_" + signKey
}

func planFor(signKey, dateKey string) seedPlan {
	base := BaseKey(signKey, dateKey)

	return seedPlan{
		Theme:        base + "_theme",
		OneLine:      base + "_short",
		OverallStars: base + "_overall",
		LoveStars:    base + "_loveStars",
		WorkStars:    base + "_workStars",
		MoneyStars:   base + "_moneyStars",
		Action:       base + "_advice",
		Caution:      base + "_caution",
		LuckyColor:   base + "_lc",
		LuckyItem:    base + "_li",
		LuckyTime:    base + "_lt",
		OverallText:  base + "_overallText",
		LoveText:     base + "_love",
		WorkText:     base + "_work",
		MoneyText:    base + "_money",
	}
}

// Build assembles the fortune for signKey on dateKey. Inputs are not
// validated; any strings produce a record.
func Build(signKey, dateKey string) domain.Fortune {
	p := planFor(signKey, dateKey)

	return domain.Fortune{
		Date:    dateKey,
		SignKey: signKey,
		Digest: domain.Digest{
			Theme:   PickFromList(p.Theme, themes),
			OneLine: PickFromList(p.OneLine, oneLines),
			Scores: domain.Scores{
				Overall: PickInRange(p.OverallStars, domain.MinStars, domain.MaxStars),
				Love:    PickInRange(p.LoveStars, domain.MinStars, domain.MaxStars),
				Work:    PickInRange(p.WorkStars, domain.MinStars, domain.MaxStars),
				Money:   PickInRange(p.MoneyStars, domain.MinStars, domain.MaxStars),
			},
			Tips: domain.Tips{
				Action:  PickFromList(p.Action, actions),
				Caution: PickFromList(p.Caution, cautions),
				Lucky: domain.Lucky{
					Color: PickFromList(p.LuckyColor, luckyColors),
					Item:  PickFromList(p.LuckyItem, luckyItems),
					Time:  PickFromList(p.LuckyTime, LuckyTimes),
				},
			},
		},
		Full: domain.Full{
			Overall: PickFromList(p.OverallText, overallTexts),
			Love:    PickFromList(p.LoveText, loveTexts),
			Work:    PickFromList(p.WorkText, workTexts),
			Money:   PickFromList(p.MoneyText, moneyTexts),
		},
	}
}

// Digest returns only the free part of the fortune for signKey on dateKey.
func Digest(signKey, dateKey string) domain.Digest {
	return Build(signKey, dateKey).Digest
}
