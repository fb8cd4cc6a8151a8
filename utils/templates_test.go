package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTemplateFirstWins(t *testing.T) {
	// Both vendor patterns match; the catalog order decides
	text := "Target Store\nSold at Walmart Supercenter\nTOTAL DUE $10.00"

	tmpl := MatchTemplate(text)

	assert.NotNil(t, tmpl)
	assert.Equal(t, "Walmart", tmpl.Name)
}

func TestMatchTemplateFuzzyFallback(t *testing.T) {
	// OCR garbled the first letters of the vendor name
	tmpl := MatchTemplate("MLAKA STORES\nGrand Total: 120.00")

	assert.NotNil(t, tmpl)
	assert.Equal(t, "Melaka Layout", tmpl.Name)
}

func TestMatchTemplateNoMatch(t *testing.T) {
	assert.Nil(t, MatchTemplate("Corner Tea Shop\nTotal 45.00"))
}

func TestMatchTemplateFieldPatterns(t *testing.T) {
	text := "WALMART\n01/15/2024\nTC# 778812\nTAX 2 $1.50\nTOTAL DUE $21.50"

	tmpl := MatchTemplate(text)
	assert.NotNil(t, tmpl)

	m := tmpl.BillIDPattern.FindStringSubmatch(text)
	assert.Equal(t, "778812", m[1])

	m = tmpl.TotalPattern.FindStringSubmatch(text)
	assert.Equal(t, 21.50, CleanAmount(m[1]))

	m = tmpl.TaxPattern.FindStringSubmatch(text)
	assert.Equal(t, 1.50, CleanAmount(m[1]))
}
