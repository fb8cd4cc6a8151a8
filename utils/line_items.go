package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

// Summary and payment rows are never items.
var itemIgnoreRe = regexp.MustCompile(`(?i)(total|subtotal|subttl|tax|vat|gst|change|cash|card|due|savings|discount|round|balance|items|summary|charge)`)

var (
	// "2 Pizza 500.00" — leading quantity, name, trailing price
	itemQtyRe = regexp.MustCompile(`^(\d+)\s+(.+?)\s+₹?\s*(\d+[.,]\d{2}|\d+\.\d+)\s*$`)
	// "Pizza 250.00" — name and trailing price, optional stray multiplier mark
	itemNameRe = regexp.MustCompile(`^(.+?)\s+₹?\s*(\d+[.,]\d{2}|\d+\.\d+)\s*[*x]?$`)
	// Bare integer price fallback
	itemNameIntRe = regexp.MustCompile(`^(.+?)\s+₹?\s*(\d+)\s*[*x]?$`)
)

// ExtractLineItems pattern-matches item rows against the reconciled total.
// A price above the total is OCR noise, not a purchase, so such rows are
// dropped. Items keep their source line order.
func ExtractLineItems(lines []string, total float64) []dto.LineItem {
	items := []dto.LineItem{}

	for _, line := range lines {
		if itemIgnoreRe.MatchString(line) {
			continue
		}

		if m := itemQtyRe.FindStringSubmatch(line); m != nil {
			qty, _ := strconv.Atoi(m[1])
			name := strings.TrimSpace(m[2])
			price := CleanAmount(m[3])
			if 0 < price && price <= total && len(name) > 1 {
				items = append(items, dto.LineItem{Name: name, Quantity: qty, Price: price})
				continue
			}
		}

		m := itemNameRe.FindStringSubmatch(line)
		if m == nil {
			m = itemNameIntRe.FindStringSubmatch(line)
		}
		if m != nil {
			name := strings.TrimSpace(m[1])
			price := CleanAmount(m[2])
			if 0 < price && price <= total && len(name) > 2 {
				items = append(items, dto.LineItem{Name: name, Price: price})
			}
		}
	}

	return items
}
