package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGeminiResponse(t *testing.T) {
	response := "```json\n" + `{
		"bill_id": "INV-2024-001",
		"vendor": "Cafe Aroma",
		"date": "2024-02-14",
		"amount": 540.0,
		"tax": 40.0,
		"subtotal": 500.0,
		"category": "Food",
		"items": [{"Item": "Latte", "Quantity": 2, "Price": 300.0}]
	}` + "\n```"

	receipt, items, err := ParseGeminiResponse(response)

	assert.NoError(t, err)
	assert.Equal(t, "INV-2024-001", receipt.BillID)
	assert.Equal(t, "Cafe Aroma", receipt.Vendor)
	assert.Equal(t, 540.0, receipt.Amount)
	assert.Len(t, items, 1)
	assert.Equal(t, "Latte", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestParseGeminiResponseDefaults(t *testing.T) {
	receipt, items, err := ParseGeminiResponse(`{"vendor": null, "amount": "not a number"}`)

	assert.NoError(t, err)
	assert.Equal(t, "UNKNOWN", receipt.BillID)
	assert.Equal(t, "Unknown Vendor", receipt.Vendor)
	assert.Equal(t, "Uncategorized", receipt.Category)
	assert.Equal(t, "2024-01-01", receipt.Date)
	assert.Equal(t, 0.0, receipt.Amount)
	assert.Equal(t, 0.0, receipt.Tax)
	assert.Equal(t, 0.0, receipt.Subtotal)
	assert.Empty(t, items)
}

func TestParseGeminiResponseStringAmounts(t *testing.T) {
	receipt, _, err := ParseGeminiResponse(`{"amount": "324.00", "tax": "24"}`)

	assert.NoError(t, err)
	assert.Equal(t, 324.0, receipt.Amount)
	assert.Equal(t, 24.0, receipt.Tax)
}

func TestParseGeminiResponseNoJSON(t *testing.T) {
	_, _, err := ParseGeminiResponse("sorry, I could not read the receipt")

	assert.Error(t, err)
}

func TestBillIDFromQR(t *testing.T) {
	assert.Equal(t, "INV/24/0042", BillIDFromQR(`{"DocNo": "INV/24/0042", "DocDt": "15/01/2024"}`))
	assert.Equal(t, "", BillIDFromQR("not json at all"))
}
