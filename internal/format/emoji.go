package format

var categoryEmojis = map[string]string{
	"Food & Dining":    "🍔",
	"Transport":        "🚗",
	"Shopping":         "🛍️",
	"Bills & Utilities": "💳",
	"Entertainment":    "🎬",
	"Health & Fitness": "💪",
	"Travel":           "✈️",
	"Cash Withdrawal":  "💵",
	"Income/Transfer":  "💰",
	"Unknown":          "❓",
}

// Emoji returns the glyph for a known category, or a default marker.
func Emoji(category string) string {
	if e, ok := categoryEmojis[category]; ok {
		return e
	}
	return "📌"
}
