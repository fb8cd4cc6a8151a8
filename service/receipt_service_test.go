package service

import (
	"testing"

	"github.com/billsnap/receipt-ocr-tracker/utils"
	"github.com/stretchr/testify/assert"
)

func TestParseText(t *testing.T) {
	service := &ReceiptService{parser: utils.NewReceiptParser()}

	text := "WALMART\nInvoice No: WM-778899\nDate: 2024-03-15\nSubtotal 45.50\nTax 3.64\nTotal 49.14"

	receipt, items := service.ParseText(text)

	assert.Equal(t, "WM-778899", receipt.BillID)
	assert.Equal(t, "Walmart", receipt.Vendor)
	assert.Equal(t, "2024-03-15", receipt.Date)
	assert.Equal(t, 49.14, receipt.Amount)
	assert.Equal(t, 3.64, receipt.Tax)
	assert.Equal(t, 45.50, receipt.Subtotal)
	assert.Equal(t, "Grocery", receipt.Category)
	assert.Empty(t, items)
}

func TestParseTextWithItems(t *testing.T) {
	service := &ReceiptService{parser: utils.NewReceiptParser()}

	text := "Pizza Place\nInvoice No: PZ-1001\nDate: 2024-02-01\nMargherita 12.00\nGarlic Bread 4.50\nTotal 16.50"

	receipt, items := service.ParseText(text)

	assert.Equal(t, "Pizza Place", receipt.Vendor)
	assert.Equal(t, "Food", receipt.Category)
	assert.Len(t, items, 2)
	assert.Equal(t, "Margherita", items[0].Name)
	assert.Equal(t, 12.00, items[0].Price)
}

func TestHasUsableText(t *testing.T) {
	assert.False(t, hasUsableText(""))
	assert.False(t, hasUsableText("  \n\n  a b "))
	assert.True(t, hasUsableText("WALMART Subtotal 45.50 Tax 3.64 Total 49.14"))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("receipt.PDF"))
	assert.True(t, isPDF("scan.pdf"))
	assert.False(t, isPDF("receipt.png"))
}

func TestImageFormat(t *testing.T) {
	assert.Equal(t, "png", imageFormat("shot.PNG"))
	assert.Equal(t, "jpeg", imageFormat("photo.jpg"))
	assert.Equal(t, "jpeg", imageFormat("unknown.bin"))
}
