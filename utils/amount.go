package utils

import (
	"math"
	"strconv"
	"strings"
)

// ocrDigitFixer repairs the character confusions OCR engines make most
// often inside numbers. Order matters: it mirrors the correction table
// o->0, s->5, i->1, l->1, |->1, b->8 applied on a lower-cased copy.
var ocrDigitFixer = strings.NewReplacer(
	"o", "0",
	"s", "5",
	"i", "1",
	"l", "1",
	"|", "1",
	"b", "8",
)

// CleanAmount parses a substring believed to be a monetary value,
// correcting common OCR digit misreads first. It never fails: empty
// input, pure punctuation or an unparseable remainder all yield 0.0.
func CleanAmount(val string) float64 {
	if val == "" {
		return 0.0
	}

	clean := ocrDigitFixer.Replace(strings.ToLower(val))
	clean = strings.ReplaceAll(clean, ",", "")

	// Strip everything that is not a digit or a decimal point
	var b strings.Builder
	for _, c := range clean {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}

	amount, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0.0
	}
	return amount
}

// Round2 rounds to 2 decimal places with a multiply-round-divide step,
// sidestepping banker's rounding on .5 ties.
func Round2(val float64) float64 {
	return math.Floor(val*100+0.5) / 100.0
}
