package utils

import (
	"strings"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

type categoryRule struct {
	name     string
	keywords []string
}

// categoryRules is an ordered table: the first category with a keyword hit
// wins, so the order below is part of the classifier's behavior.
var categoryRules = []categoryRule{
	{"Utility", []string{"power", "electricity", "water", "gas", "bescom", "tata power", "bill", "supply", "electric", "broadband", "mobile", "recharge"}},
	{"Food", []string{"restaurant", "cafe", "kitchen", "hotel", "dining", "burger", "pizza", "swiggy", "zomato", "coffee", "tea", "bistro", "foods", "bakery", "canteen"}},
	{"Grocery", []string{"mart", "super market", "fresh", "store", "vegetable", "fruit", "market", "grocer", "kirana", "basket", "reliance", "dmart", "bigbasket"}},
	{"Medical", []string{"pharmacy", "hospital", "clinic", "doctor", "dr.", "medplus", "apollo", "pharma", "health", "medical", "diagnostic", "lab"}},
	{"Travel", []string{"fuel", "petrol", "diesel", "station", "pump", "uber", "ola", "rapido", "ride", "trip", "travel", "fastag", "toll"}},
	{"Shopping", []string{"retail", "fashion", "clothing", "trends", "zudio", "apparel", "garment", "mall", "shoe", "footwear", "lifestyle", "westside", "hm", "zara", "school shop"}},
	{"Entertainment", []string{"movie", "cinema", "theatre", "show", "entertainment", "game", "fun", "club", "resort"}},
}

// ExtractCategory classifies a receipt by keyword rules. The vendor name is
// checked before the full text so a recognizable vendor beats incidental
// keyword noise in the body.
func ExtractCategory(text, vendor string) string {
	textLower := strings.ToLower(text)
	vendorLower := strings.ToLower(vendor)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(vendorLower, kw) {
				return rule.name
			}
		}
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(textLower, kw) {
				return rule.name
			}
		}
	}

	return dto.UncategorizedLabel
}
