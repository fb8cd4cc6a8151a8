package utils

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

// Decimal amounts with 2-3 places, or a looser decimal fallback. Receipts
// print money with the cents, so the strict form is tried first.
var (
	numPrimaryRe = regexp.MustCompile(`\d+[.,]\d{2,3}\b|\b\d+\.\d+\b`)
	numLooseRe   = regexp.MustCompile(`\d+[.,]?\d*`)
)

// Bucket classifiers. The total and subtotal patterns tolerate 0/4 misreads
// for o/a so a corrupted "T0TAL" line still lands in the right bucket.
var (
	totalKeywordsRe    = regexp.MustCompile(`(?i)\b(grand\s*total|t[o0]t[a4]l|due|payable|amount|net\s*total)\b`)
	taxKeywordsRe      = regexp.MustCompile(`(?i)\b(tax|g\s*s\s*t|v\s*a\s*t|cgst|sgst|igst|utgst|sales\s*tax|service\s*charge|service\s*tax|luxury\s*tax|cess|hsn|sac|tva|iva|mwst|consumption\s*tax|tax\s*amount)\b`)
	subtotalKeywordsRe = regexp.MustCompile(`(?i)\b(sub\s*t[o0]t[a4]l|sub\s*ttl|sub\s*tot|stot|net\s*amount|net\s*amt|taxable|sub)\b`)
)

// lineDigitFixer normalizes a line before number extraction only; the raw
// line is kept for keyword classification.
var lineDigitFixer = strings.NewReplacer("o", "0", "s", "5", "|", "1", "i", "1")

// Financials is the reconciled (subtotal, tax, total) triple.
type Financials struct {
	Total    float64
	Tax      float64
	Subtotal float64
}

// lineAmounts extracts all plausible monetary values from one line,
// skipping single-character matches (stray digits).
func lineAmounts(line string) []float64 {
	clean := lineDigitFixer.Replace(strings.ToLower(line))
	nums := numPrimaryRe.FindAllString(clean, -1)
	if len(nums) == 0 {
		nums = numLooseRe.FindAllString(clean, -1)
	}

	var amounts []float64
	for _, n := range nums {
		if len(n) > 1 {
			amounts = append(amounts, CleanAmount(n))
		}
	}
	return amounts
}

// collectCandidates classifies each line into total/tax/subtotal evidence
// buckets by keyword and returns them with the flat list of every number
// found anywhere in the text (used by the fallback tiers).
func collectCandidates(lines []string, text string) (totals, taxes, subtotals, allNumbers []float64) {
	cleanText := strings.NewReplacer("o", "0", "s", "5").Replace(strings.ToLower(text))
	for _, n := range numPrimaryRe.FindAllString(cleanText, -1) {
		allNumbers = append(allNumbers, CleanAmount(n))
	}

	for i, line := range lines {
		amounts := lineAmounts(line)

		if totalKeywordsRe.MatchString(line) && len(amounts) > 0 {
			totals = append(totals, amounts[len(amounts)-1])
		}

		// "Tax Invoice" headers are labels, not amounts
		if taxKeywordsRe.MatchString(line) && !strings.Contains(strings.ToLower(line), "invoice") {
			if len(amounts) > 0 {
				taxes = append(taxes, amounts[len(amounts)-1])
			} else if i+1 < len(lines) {
				// Label and value split across two lines
				if next := numPrimaryRe.FindAllString(lines[i+1], -1); len(next) > 0 {
					taxes = append(taxes, CleanAmount(next[0]))
				}
			}
		}

		if subtotalKeywordsRe.MatchString(line) && len(amounts) > 0 {
			subtotals = append(subtotals, amounts[len(amounts)-1])
		}
	}

	return totals, taxes, subtotals, allNumbers
}

// lastOr returns the most recent candidate in a bucket. Later lines sit
// nearer the receipt footer and are treated as more authoritative.
func lastOr(candidates []float64, fallback float64) float64 {
	if len(candidates) > 0 {
		return candidates[len(candidates)-1]
	}
	return fallback
}

// ReconcileFinancials selects a (subtotal, tax, total) triple satisfying
// subtotal + tax ≈ total from noisy line evidence. Template-supplied values
// win over bucket candidates when nonzero. The repair cascade prefers
// labeled evidence, then the largest plausible number, then algebraic
// derivation, and finally a pair search over the distinct numbers.
func ReconcileFinancials(lines []string, text string, template Financials) (Financials, []float64) {
	potentialTotals, potentialTaxes, potentialSubtotals, allNumbers := collectCandidates(lines, text)

	total := template.Total
	if total == 0 {
		total = lastOr(potentialTotals, 0.0)
	}
	tax := template.Tax
	if tax == 0 {
		tax = lastOr(potentialTaxes, 0.0)
	}
	subtotal := template.Subtotal
	if subtotal == 0 {
		subtotal = lastOr(potentialSubtotals, 0.0)
	}

	// 1. total > 0 with subtotal+tax within 0.1 is already consistent; the
	// repair steps below are written so that case passes through untouched.

	// 2. Missing total: the largest number on a receipt is usually it
	if total == 0 && len(allNumbers) > 0 {
		total = maxOf(allNumbers)
	}

	// 3. No-tax receipt: subtotal and total near identical
	if total > 0 && tax == 0 && subtotal > 0 && math.Abs(subtotal-total) < 1.0 {
		subtotal = total
		tax = 0.0
	}

	// 4. Two of three known: solve for the missing term
	if total > 0 {
		if subtotal == 0 && tax > 0 {
			subtotal = total - tax
		} else if tax == 0 && subtotal > 0 && subtotal != total {
			tax = total - subtotal
		}
	}

	// 5. Brute force: search the distinct numbers for a pair that completes
	// the total. First fit wins under descending order; this is a heuristic,
	// not a best-fit search.
	if math.Abs((subtotal+tax)-total) > 0.5 && total > 0 {
		uniqueNums := uniqueSortedDesc(allNumbers)
		found := false
		for _, a := range uniqueNums {
			if a >= total {
				continue
			}
			for _, b := range uniqueNums {
				if math.Abs((a+b)-total) < 0.1 {
					subtotal, tax = a, b
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}

	// Final fallbacks
	if total == 0.0 && len(allNumbers) > 0 {
		total = maxOf(allNumbers)
	}

	if subtotal == 0.0 && total > 0 {
		subtotal = total - tax
	} else if subtotal > total {
		subtotal = total
		tax = 0.0
	}

	if subtotal < 0 {
		subtotal = total
	}

	return Financials{Total: total, Tax: tax, Subtotal: subtotal}, allNumbers
}

// ApplyItemSum corroborates the subtotal with the extracted item sum. It
// only fills a missing subtotal; a nonzero one is never overridden.
func ApplyItemSum(fin Financials, items []dto.LineItem) Financials {
	var itemSum float64
	for _, item := range items {
		itemSum += item.Price
	}

	if fin.Subtotal == 0 && itemSum > 0 {
		if fin.Total == 0 || math.Abs(itemSum-fin.Total) < 0.5 {
			fin.Subtotal = itemSum
			if fin.Total == 0 {
				fin.Total = fin.Subtotal + fin.Tax
			}
		}
	}
	return fin
}

func maxOf(nums []float64) float64 {
	m := nums[0]
	for _, n := range nums[1:] {
		if n > m {
			m = n
		}
	}
	return m
}

func uniqueSortedDesc(nums []float64) []float64 {
	seen := make(map[float64]bool, len(nums))
	var unique []float64
	for _, n := range nums {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(unique)))
	return unique
}
