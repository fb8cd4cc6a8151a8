package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/billsnap/receipt-ocr-tracker/dto"
)

// ParseGeminiResponse turns a model response into a receipt record,
// applying the extraction path's defaulting table per key:
// bill_id "UNKNOWN", vendor "Unknown Vendor", category "Uncategorized",
// date "2024-01-01", monetary fields 0.0, items empty. Each monetary field
// is coerced to float independently and falls back to 0.0 on failure.
func ParseGeminiResponse(text string) (dto.ParsedReceipt, []dto.LineItem, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - first { to last }
	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return dto.ParsedReceipt{}, nil, fmt.Errorf("no JSON object found in response")
	}
	text = text[startIdx : endIdx+1]

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return dto.ParsedReceipt{}, nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	receipt := dto.ParsedReceipt{
		BillID:   stringOr(raw, "bill_id", dto.UnknownBillID),
		Vendor:   stringOr(raw, "vendor", dto.UnknownVendor),
		Category: stringOr(raw, "category", dto.UncategorizedLabel),
		Date:     stringOr(raw, "date", "2024-01-01"),
		Amount:   floatOr(raw, "amount"),
		Tax:      floatOr(raw, "tax"),
		Subtotal: floatOr(raw, "subtotal"),
	}

	items := []dto.LineItem{}
	if data, ok := raw["items"]; ok {
		// Malformed item lists degrade to empty, not to an error
		_ = json.Unmarshal(data, &items)
	}

	return receipt, items, nil
}

func stringOr(raw map[string]json.RawMessage, key, fallback string) string {
	data, ok := raw[key]
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return fallback
	}
	return s
}

// floatOr coerces a value to float64: JSON numbers directly, numeric
// strings via parsing, everything else 0.0.
func floatOr(raw map[string]json.RawMessage, key string) float64 {
	data, ok := raw[key]
	if !ok {
		return 0.0
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0.0
}
