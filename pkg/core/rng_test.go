package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellFloat64Deterministic(t *testing.T) {
	a := CellFloat64(7, 3, 120)
	b := CellFloat64(7, 3, 120)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0.0)
	assert.Less(t, a, 1.0)
}

func TestCellFloat64VariesByStepAndIndex(t *testing.T) {
	base := CellFloat64(7, 3, 120)
	assert.NotEqual(t, base, CellFloat64(7, 4, 120))
	assert.NotEqual(t, base, CellFloat64(7, 3, 121))
	assert.NotEqual(t, base, CellFloat64(8, 3, 120))
}

func TestCellFloat64Distribution(t *testing.T) {
	below := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if CellFloat64(1, 0, i) < 0.1 {
			below++
		}
	}
	frac := float64(below) / n
	assert.InDelta(t, 0.1, frac, 0.02)
}

func TestNewRNGDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 8; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
