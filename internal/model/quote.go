package model

// MotivationalQuotes is the fixed set CurrentQuote is drawn from.
var MotivationalQuotes = []string{
	"Save a little today for a lot tomorrow.",
	"The best time to start saving was yesterday. The second best time is now.",
	"Small savings add up to big results.",
	"Financial freedom is a mental, emotional and educational process.",
	"Budget your money and live within your means.",
	"Don't save what's left after spending, spend what's left after saving.",
}

// IsQuote reports whether q belongs to the quote set.
func IsQuote(quotes []string, q string) bool {
	for _, candidate := range quotes {
		if candidate == q {
			return true
		}
	}
	return false
}
