package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanAmount(t *testing.T) {
	assert.Equal(t, 99.90, CleanAmount("99.9o"))
	assert.Equal(t, 150.0, CleanAmount("1So"))
	assert.Equal(t, 1234.56, CleanAmount("1,234.56"))
	assert.Equal(t, 21.50, CleanAmount("$21.50"))
	assert.Equal(t, 118.0, CleanAmount("11b"))
	assert.Equal(t, 11.0, CleanAmount("|i"))
}

func TestCleanAmountNeverFails(t *testing.T) {
	assert.Equal(t, 0.0, CleanAmount(""))
	assert.Equal(t, 0.0, CleanAmount("---"))
	assert.Equal(t, 0.0, CleanAmount("₹₹₹"))
	assert.Equal(t, 0.0, CleanAmount("..."))
	assert.Equal(t, 0.0, CleanAmount("1.2.3"))
	assert.Equal(t, 0.0, CleanAmount("\x00\xff@@!!"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 20.0, Round2(21.5-1.5))
	assert.Equal(t, 0.35, Round2(0.345))
	assert.Equal(t, 100.0, Round2(99.999))
}

func TestRound2Idempotent(t *testing.T) {
	values := []float64{0.0, 0.005, 1.115, 99.9, 324.0, 12345.678}
	for _, v := range values {
		assert.Equal(t, Round2(v), Round2(Round2(v)))
	}
}
