package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCategoryVendorBeatsText(t *testing.T) {
	// Vendor keyword wins even when the body mentions other categories
	category := ExtractCategory("Apollo Pharmacy\nPizza 250.00\nTotal 250.00", "Apollo Pharmacy")

	assert.Equal(t, "Medical", category)
}

func TestExtractCategoryFullTextFallback(t *testing.T) {
	category := ExtractCategory("XYZ Traders\nPetrol 2000.00\nTotal 2000.00", "XYZ Traders")

	assert.Equal(t, "Travel", category)
}

func TestExtractCategoryTableOrder(t *testing.T) {
	// "power" (Utility) outranks "cinema" (Entertainment) in table order
	category := ExtractCategory("Power Cinema Hall\nTicket 300.00", "Power Cinema Hall")

	assert.Equal(t, "Utility", category)
}

func TestExtractCategoryDefault(t *testing.T) {
	assert.Equal(t, "Uncategorized", ExtractCategory("XYZ 12.00", "XYZ"))
	assert.Equal(t, "Uncategorized", ExtractCategory("", ""))
}
