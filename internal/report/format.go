package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HumanizeCategory turns "soft_skills" into "Soft Skills". The first character
// of every ASCII word run is upper-cased; the rest are left as they are, so
// "o'reilly" becomes "O'Reilly" and "3d" stays "3d".
func HumanizeCategory(category string) string {
	spaced := strings.ReplaceAll(category, "_", " ")
	upper := cases.Upper(language.Und)
	var b strings.Builder
	inWord := false
	for _, r := range spaced {
		word := isWordRune(r)
		if word && !inWord {
			b.WriteString(upper.String(string(r)))
		} else {
			b.WriteRune(r)
		}
		inWord = word
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// Tone classifies a score for display.
type Tone string

const (
	ToneNone Tone = ""
	ToneGood Tone = "good"
	ToneFair Tone = "fair"
	TonePoor Tone = "poor"
)

// ScoreTone maps a 0-100 score to a tone: 80 and above is good, 60 and above fair.
func ScoreTone(n Number) Tone {
	if !n.Valid {
		return ToneNone
	}
	switch {
	case n.Value >= 80:
		return ToneGood
	case n.Value >= 60:
		return ToneFair
	default:
		return TonePoor
	}
}

// CoverageBand labels a category coverage percentage.
func CoverageBand(n Number) string {
	if !n.Valid {
		return NotAvailable
	}
	switch {
	case n.Value == 0:
		return "No Skills"
	case n.Value < 30:
		return "Limited"
	case n.Value < 70:
		return "Good"
	default:
		return "Excellent"
	}
}

// CoverageTone colours a coverage bar: empty is poor, under 30 fair.
func CoverageTone(n Number) Tone {
	if !n.Valid {
		return ToneNone
	}
	switch {
	case n.Value == 0:
		return TonePoor
	case n.Value < 30:
		return ToneFair
	default:
		return ToneGood
	}
}

// Percent formats a number as "NN%", or NotAvailable.
func Percent(n Number) string {
	if !n.Valid {
		return NotAvailable
	}
	return n.String() + "%"
}
