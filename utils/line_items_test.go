package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLineItemsWithQuantity(t *testing.T) {
	lines := []string{"2 Samosa 40.00", "Masala Dosa 120.00"}

	items := ExtractLineItems(lines, 160.00)

	assert.Len(t, items, 2)
	assert.Equal(t, "Samosa", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 40.00, items[0].Price)
	assert.Equal(t, "Masala Dosa", items[1].Name)
	assert.Equal(t, 0, items[1].Quantity)
	assert.Equal(t, 120.00, items[1].Price)
}

func TestExtractLineItemsSkipsSummaryLines(t *testing.T) {
	lines := []string{
		"Pizza 250.00",
		"Subtotal 250.00",
		"Tax 20.00",
		"Total 270.00",
		"Cash 300.00",
		"Change 30.00",
	}

	items := ExtractLineItems(lines, 270.00)

	assert.Len(t, items, 1)
	assert.Equal(t, "Pizza", items[0].Name)
}

func TestExtractLineItemsPriceBoundedByTotal(t *testing.T) {
	lines := []string{"Caviar 999.00", "Bread 25.00"}

	items := ExtractLineItems(lines, 50.00)

	assert.Len(t, items, 1)
	assert.Equal(t, "Bread", items[0].Name)
	for _, item := range items {
		assert.LessOrEqual(t, item.Price, 50.00)
	}
}

func TestExtractLineItemsShortNamesRejected(t *testing.T) {
	items := ExtractLineItems([]string{"ab 10.00"}, 100.00)

	assert.Empty(t, items)
}

func TestExtractLineItemsBareIntegerPrice(t *testing.T) {
	items := ExtractLineItems([]string{"Paneer Roll 90"}, 100.00)

	assert.Len(t, items, 1)
	assert.Equal(t, 90.00, items[0].Price)
}

func TestExtractLineItemsPreserveOrder(t *testing.T) {
	lines := []string{"Zebra Cake 30.00", "Apple Pie 20.00"}

	items := ExtractLineItems(lines, 100.00)

	assert.Equal(t, "Zebra Cake", items[0].Name)
	assert.Equal(t, "Apple Pie", items[1].Name)
}
