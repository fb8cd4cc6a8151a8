package utils

import (
	"regexp"
	"strings"
)

// ReceiptTemplate bundles the field patterns for one known vendor layout.
// Templates shortcut the generic extractors: when a field pattern hits,
// its capture wins over the heuristic extraction for that field.
type ReceiptTemplate struct {
	Name            string
	VendorPattern   *regexp.Regexp
	DatePattern     *regexp.Regexp
	TotalPattern    *regexp.Regexp
	TaxPattern      *regexp.Regexp
	SubtotalPattern *regexp.Regexp
	BillIDPattern   *regexp.Regexp
	// FuzzyNames are OCR-garbled spellings checked as lower-cased
	// substrings when the vendor pattern itself fails to match.
	FuzzyNames []string
}

// receiptTemplates is scanned in declaration order; the first match wins,
// so more specific vendors must stay ahead of looser patterns.
var receiptTemplates = []ReceiptTemplate{
	{
		Name:          "Walmart",
		VendorPattern: regexp.MustCompile(`(?i)walmart`),
		DatePattern:   regexp.MustCompile(`(\d{2}/\d{2}/\d{2,4})`), // MM/DD/YY
		TotalPattern:  regexp.MustCompile(`(?i)\btotal\s+due\s+\$?\s*(\d+\.\d{2})`),
		TaxPattern:    regexp.MustCompile(`(?i)tax\s+\d+\s*\$?\s*(\d+\.\d{2})`),
		BillIDPattern: regexp.MustCompile(`(?i)tc#\s*(\d+)`),
	},
	{
		Name:          "Target",
		VendorPattern: regexp.MustCompile(`(?i)target`),
		DatePattern:   regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		TotalPattern:  regexp.MustCompile(`(?i)\btotal\s+\$?\s*(\d+\.\d{2})`),
		BillIDPattern: regexp.MustCompile(`(?i)receipt#\s*([a-zA-Z0-9-]+)`),
	},
	{
		Name:          "Costco",
		VendorPattern: regexp.MustCompile(`(?i)costco`),
		DatePattern:   regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		TotalPattern:  regexp.MustCompile(`(?i)total\s+owned\s+\$?\s*(\d+\.\d{2})`),
	},
	{
		Name:          "Amazon",
		VendorPattern: regexp.MustCompile(`(?i)amazon`),
		DatePattern:   regexp.MustCompile(`(?i)shipped on\s+(\w+\s+\d{1,2},\s+\d{4})`),
		TotalPattern:  regexp.MustCompile(`(?i)grand total:\s*\$?\s*(\d+\.\d{2})`),
		BillIDPattern: regexp.MustCompile(`(?i)order #\s*([0-9-]{10,})`),
	},
	{
		Name:          "Wirral School Shops",
		VendorPattern: regexp.MustCompile(`(?i)wirral school shops`),
		DatePattern:   regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
		TotalPattern:  regexp.MustCompile(`(?i)total\s+amount\s+₹?\s*(\d+\.\d{2})`),
		TaxPattern:    regexp.MustCompile(`(?i)tax\s+₹?\s*(\d+\.\d{2})`),
	},
	{
		Name:            "Melaka Layout",
		VendorPattern:   regexp.MustCompile(`(?i)melaka|maas`),
		TotalPattern:    regexp.MustCompile(`(?i)grand\s+total\s*[:\-\s]*(\d+[.,]\d{2,3})`),
		SubtotalPattern: regexp.MustCompile(`(?i)subtotal\s*[:\-\s]*(\d+[.,]\d{2,3})`),
		// First letters of "Melaka" get misread frequently
		FuzzyNames: []string{"maas", "mlaka", "melka", "meaka"},
	},
}

// MatchTemplate finds the first template whose vendor pattern matches the
// text. A template's fuzzy spellings are tried right after its own pattern,
// so catalog order stays the only tie-break.
func MatchTemplate(text string) *ReceiptTemplate {
	textLower := strings.ToLower(text)
	for i := range receiptTemplates {
		tmpl := &receiptTemplates[i]
		if tmpl.VendorPattern.MatchString(text) {
			return tmpl
		}
		for _, fuzzy := range tmpl.FuzzyNames {
			if strings.Contains(textLower, fuzzy) {
				return tmpl
			}
		}
	}
	return nil
}
