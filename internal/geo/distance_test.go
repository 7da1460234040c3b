package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKM(t *testing.T) {
	// Berlin -> Hamburg is roughly 255km as the crow flies.
	d := HaversineKM(52.5200, 13.4050, 53.5511, 9.9937)
	assert.InDelta(t, 255, d, 5)

	assert.Zero(t, HaversineKM(48.1374, 11.5755, 48.1374, 11.5755))

	// Symmetry.
	assert.InDelta(t,
		HaversineKM(50.9375, 6.9603, 48.1374, 11.5755),
		HaversineKM(48.1374, 11.5755, 50.9375, 6.9603),
		1e-9,
	)
}
