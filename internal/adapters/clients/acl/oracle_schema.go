package acl

// Response schemas for strict structured output. Strict mode requires every
// property to be listed in "required"; optional values are nullable instead.

func object(required []string, properties map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           properties,
	}
}

func str() map[string]any {
	return map[string]any{"type": "string"}
}

func constant(value string) map[string]any {
	return map[string]any{"type": "string", "enum": []string{value}}
}

func stars(lo, hi int) map[string]any {
	return map[string]any{"type": "integer", "minimum": lo, "maximum": hi}
}

func strList(lo, hi int) map[string]any {
	return map[string]any{"type": "array", "minItems": lo, "maxItems": hi, "items": str()}
}

func luckyPairSchema() map[string]any {
	return object([]string{"color", "item"}, map[string]any{
		"color": str(),
		"item":  str(),
	})
}

func fortuneSchema() map[string]any {
	axes := []string{"overall", "love", "work", "money"}

	return object([]string{"digest", "full"}, map[string]any{
		"digest": object([]string{"theme", "oneLine", "scores", "tips"}, map[string]any{
			"theme":   str(),
			"oneLine": str(),
			"scores": object(axes, map[string]any{
				"overall": stars(1, 5),
				"love":    stars(1, 5),
				"work":    stars(1, 5),
				"money":   stars(1, 5),
			}),
			"tips": object([]string{"action", "caution", "lucky"}, map[string]any{
				"action":  str(),
				"caution": str(),
				"lucky": object([]string{"color", "item", "time"}, map[string]any{
					"color": str(),
					"item":  str(),
					"time":  str(),
				}),
			}),
		}),
		"full": object(axes, map[string]any{
			"overall": str(),
			"love":    str(),
			"work":    str(),
			"money":   str(),
		}),
	})
}

func readingMetaSchema(level string) map[string]any {
	return object(
		[]string{"date_key", "sign_key", "sign_label", "access_level", "locale", "tone"},
		map[string]any{
			"date_key":     str(),
			"sign_key":     str(),
			"sign_label":   str(),
			"access_level": constant(level),
			"locale":       constant("ja-JP"),
			"tone":         constant("A"),
		})
}

func freeReadingSchema() map[string]any {
	return object([]string{"schema_version", "meta", "free"}, map[string]any{
		"schema_version": constant("1.1"),
		"meta":           readingMetaSchema("free"),
		"free": object([]string{"one_line", "lucky"}, map[string]any{
			"one_line": str(),
			"lucky":    luckyPairSchema(),
		}),
	})
}

// categorySchema describes one paid axis. Love and work must carry a
// message template; the other axes may leave it null.
func categorySchema(templateRequired bool) map[string]any {
	template := map[string]any{"type": []string{"string", "null"}}
	if templateRequired {
		template = str()
	}

	return object(
		[]string{"stars_5", "axis", "summary", "do", "dont", "if_then", "why", "template"},
		map[string]any{
			"stars_5": stars(0, 5),
			"axis":    str(),
			"summary": str(),
			"do":      strList(2, 4),
			"dont":    strList(1, 3),
			"if_then": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 2,
				"items": object([]string{"if", "then"}, map[string]any{
					"if":   str(),
					"then": str(),
				}),
			},
			"why":      str(),
			"template": template,
		})
}

func paidReadingSchema() map[string]any {
	return object([]string{"schema_version", "meta", "paid"}, map[string]any{
		"schema_version": constant("1.1"),
		"meta":           readingMetaSchema("paid"),
		"paid": object([]string{"overall", "love", "work", "money", "lucky"}, map[string]any{
			"overall": categorySchema(false),
			"love":    categorySchema(true),
			"work":    categorySchema(true),
			"money":   categorySchema(false),
			"lucky":   luckyPairSchema(),
		}),
	})
}
