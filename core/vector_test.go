package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	v := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	var norm float64
	for _, val := range v {
		norm += float64(val) * float64(val)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalizeVectorZero(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0}, NormalizeVector([]float32{0, 0, 0}))
	assert.Empty(t, NormalizeVector(nil))
}

func TestNormalizeVectorDoesNotMutateInput(t *testing.T) {
	in := []float32{2, 0}
	NormalizeVector(in)
	assert.Equal(t, []float32{2, 0}, in)
}
