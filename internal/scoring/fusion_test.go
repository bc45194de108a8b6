package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuse(t *testing.T) {
	// 0.4*8 + 0.35*7 + 0.25*6 = 7.15, rounded half away from zero.
	assert.Equal(t, 7.2, Fuse(8, 7, 6))
	assert.Equal(t, 0.0, Fuse(0, 0, 0))
	assert.Equal(t, 10.0, Fuse(10, 10, 10))
}

func TestFuseWithContent(t *testing.T) {
	// 0.3*8 + 0.25*7 + 0.2*6 + 0.25*9 = 7.6.
	assert.Equal(t, 7.6, FuseWithContent(8, 7, 6, 9))
	assert.Equal(t, 10.0, FuseWithContent(10, 10, 10, 10))
}

func TestFuseStaysInRange(t *testing.T) {
	for v := 0.0; v <= 10; v++ {
		for b := 0.0; b <= 10; b += 2.5 {
			got := Fuse(v, b, 10-b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 10.0)
		}
	}
}

func TestVoiceCarriesMostWeight(t *testing.T) {
	// Raising only the voice input moves the fused score more than raising
	// only the facial input by the same amount.
	base := Fuse(5, 5, 5)
	assert.Greater(t, Fuse(8, 5, 5)-base, Fuse(5, 5, 8)-base)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 6.3, Round1(6.25))
	assert.Equal(t, 7.1, Round1(7.14))
	assert.Equal(t, -1.4, Round1(-1.44))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(12, 0, 10))
	assert.Equal(t, 4.2, Clamp(4.2, 0, 10))
}

func TestMeanAndStd(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Std([]float64{5, 5, 5}))
	assert.InDelta(t, 2.236, Std([]float64{2, 4, 6, 8}), 0.001) // population std
}
