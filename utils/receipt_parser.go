package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

// Labeled identifier, bare #token, and short-prefix variants, tried in order.
var billIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:transaction|invoice|receipt|order|ticket|bill|inv|rec|txn|trans)\b\s*(?:no|id|number|#)?\s*[:.-]?\s*([a-zA-Z0-9/-]+)`),
	regexp.MustCompile(`(?i)#\s*([a-zA-Z0-9/-]+)`),
	regexp.MustCompile(`(?i)\b(?:inv|rec|txn)\b\s*[:.-]?\s*([a-zA-Z0-9/-]+)`),
}

// A captured token containing one of these is a mis-grabbed nearby label,
// not an identifier.
var billIDRejectWords = []string{"total", "tax", "date", "amount", "item"}

// Header phrases that appear above the vendor name on printed receipts.
var genericHeaders = map[string]bool{
	"tax invoice":    true,
	"cash receipt":   true,
	"bill of supply": true,
	"estimate":       true,
	"original":       true,
	"trans":          true,
}

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), "2006-01-02"},
	{regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`), "02/01/2006"},
	{regexp.MustCompile(`\b(\d{2}-\d{2}-\d{4})\b`), "02-01-2006"},
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ReceiptParser turns raw OCR text into a structured receipt record. The
// clock and randomness source are injectable so fallback dates and
// synthesized bill ids are reproducible in tests.
type ReceiptParser struct {
	now     func() time.Time
	randInt func(n int) int
}

// NewReceiptParser creates a parser with the real clock and math/rand.
func NewReceiptParser() *ReceiptParser {
	return &ReceiptParser{
		now:     time.Now,
		randInt: rand.Intn,
	}
}

// ParseReceipt parses raw receipt text with a default parser.
func ParseReceipt(text string) (dto.ParsedReceipt, []dto.LineItem) {
	return NewReceiptParser().Parse(text)
}

// templateFields holds whatever a matched vendor template managed to
// extract. Empty/zero fields fall through to the generic extractors.
type templateFields struct {
	billID string
	vendor string
	date   string
	fin    Financials
}

// Parse extracts a structured record and item list from raw OCR text.
// It never fails: every field has a deterministic fallback, so malformed
// or empty input still yields a complete record.
func (p *ReceiptParser) Parse(text string) (dto.ParsedReceipt, []dto.LineItem) {
	if p.now == nil {
		p.now = time.Now
	}
	if p.randInt == nil {
		p.randInt = rand.Intn
	}

	tmpl := p.applyTemplate(text)

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	billID := tmpl.billID
	if billID == "" {
		billID = p.extractBillID(lines)
	}

	vendor := tmpl.vendor
	if vendor == "" {
		vendor = extractVendor(lines)
	}

	date := tmpl.date
	if date == "" {
		date = p.extractDate(text)
	} else {
		date = p.normalizeTemplateDate(date, text)
	}

	fin, _ := ReconcileFinancials(lines, text, tmpl.fin)
	items := ExtractLineItems(lines, fin.Total)
	fin = ApplyItemSum(fin, items)

	category := ExtractCategory(text, vendor)

	receipt := dto.ParsedReceipt{
		BillID:   billID,
		Vendor:   vendor,
		Date:     date,
		Amount:   Round2(fin.Total),
		Tax:      Round2(fin.Tax),
		Subtotal: Round2(fin.Subtotal),
		Category: category,
	}
	return receipt, items
}

// applyTemplate runs the matched template's field patterns over the whole
// text. Fields whose pattern misses stay zero and are handled generically.
func (p *ReceiptParser) applyTemplate(text string) templateFields {
	tmpl := MatchTemplate(text)
	if tmpl == nil {
		return templateFields{}
	}

	fields := templateFields{vendor: tmpl.Name}

	if tmpl.BillIDPattern != nil {
		if m := tmpl.BillIDPattern.FindStringSubmatch(text); m != nil {
			fields.billID = m[1]
		}
	}
	if tmpl.DatePattern != nil {
		if m := tmpl.DatePattern.FindStringSubmatch(text); m != nil {
			fields.date = m[1]
		}
	}
	if tmpl.TotalPattern != nil {
		if m := tmpl.TotalPattern.FindStringSubmatch(text); m != nil {
			fields.fin.Total = CleanAmount(m[1])
		}
	}
	if tmpl.TaxPattern != nil {
		if m := tmpl.TaxPattern.FindStringSubmatch(text); m != nil {
			fields.fin.Tax = CleanAmount(m[1])
		}
	}
	if tmpl.SubtotalPattern != nil {
		if m := tmpl.SubtotalPattern.FindStringSubmatch(text); m != nil {
			fields.fin.Subtotal = CleanAmount(m[1])
		}
	}

	return fields
}

// extractBillID searches the lines for a labeled identifier and falls back
// to a synthesized id. Synthesized ids are low-confidence: uniqueness is
// not guaranteed.
func (p *ReceiptParser) extractBillID(lines []string) string {
	for _, line := range lines {
		for _, pattern := range billIDPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			candidate := m[1]
			if len(candidate) <= 2 {
				continue
			}
			if containsAnyFold(candidate, billIDRejectWords) {
				continue
			}
			return candidate
		}
	}
	return p.defaultBillID()
}

func (p *ReceiptParser) defaultBillID() string {
	return fmt.Sprintf("%s%d", dto.BillIDFallbackPrefix, 100000+p.randInt(900000))
}

func containsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// extractVendor takes the first of the top 3 lines that is neither a
// generic receipt header nor too short to be a name.
func extractVendor(lines []string) string {
	for i, line := range lines {
		if i >= 3 {
			break
		}
		if !genericHeaders[strings.ToLower(line)] && len(line) > 3 {
			return line
		}
	}
	return dto.UnknownVendor
}

// extractDate tries the known date shapes over the whole text and falls
// back to the current processing date.
func (p *ReceiptParser) extractDate(text string) string {
	for _, dp := range datePatterns {
		m := dp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t, err := time.Parse(dp.layout, m[1]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return p.now().Format("2006-01-02")
}

// normalizeTemplateDate applies the lighter normalization used for
// template-supplied dates: keep ISO as-is, reassemble slash dates assuming
// MM/DD/YYYY with a day/month swap when the first component exceeds 12,
// and expand 2-digit years. Anything unparseable falls back to the generic
// extractor.
func (p *ReceiptParser) normalizeTemplateDate(date, text string) string {
	if isoDateRe.MatchString(date) {
		return date
	}
	if strings.Contains(date, "/") {
		parts := strings.Split(date, "/")
		if len(parts) == 3 {
			if len(parts[2]) == 2 {
				parts[2] = "20" + parts[2]
			}
			mm, dd, yyyy := parts[0], parts[1], parts[2]

			month, err := strconv.Atoi(mm)
			if err != nil {
				return p.extractDate(text)
			}
			if month > 12 {
				mm, dd = dd, mm
			}
			return fmt.Sprintf("%s-%s-%s", yyyy, mm, dd)
		}
	}
	return date
}
