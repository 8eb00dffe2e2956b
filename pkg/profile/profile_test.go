package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Run("GrandConcerto", func(t *testing.T) {
		p, err := Lookup(GrandConcerto)
		require.NoError(t, err)

		assert.Equal(t, "NV-I8G", p.ProductNumber)
		assert.Equal(t, 16, p.Zones.Physical)
		assert.Equal(t, 20, p.Zones.Total)
		assert.Equal(t, 6, p.Sources.Total)
		assert.True(t, p.NuvoNetSources)
		assert.Equal(t, 57600, p.Serial.BaudRate)
	})

	t.Run("EssentiaG", func(t *testing.T) {
		p, err := Lookup(EssentiaG)
		require.NoError(t, err)

		assert.Equal(t, "NV-E6G", p.ProductNumber)
		assert.Equal(t, 12, p.Zones.Physical)
		assert.Equal(t, 18, p.Zones.Total)
		assert.Equal(t, 15, p.Zones.LogicalStart)
		assert.False(t, p.NuvoNetSources)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := Lookup("Concerto_Grande")
		require.ErrorIs(t, err, ErrUnknownModel)
	})
}

func TestRangeContains(t *testing.T) {
	p, err := Lookup(GrandConcerto)
	require.NoError(t, err)

	// Volume is 0..79 inclusive, step 1.
	assert.True(t, p.Volume.Contains(0))
	assert.True(t, p.Volume.Contains(79))
	assert.False(t, p.Volume.Contains(80))
	assert.False(t, p.Volume.Contains(-1))

	// Bass is -18..18 in steps of 2; odd values are not settable.
	assert.True(t, p.Bass.Contains(-18))
	assert.True(t, p.Bass.Contains(0))
	assert.True(t, p.Bass.Contains(18))
	assert.False(t, p.Bass.Contains(7))
	assert.False(t, p.Bass.Contains(20))
}

func TestZoneAndSourceBounds(t *testing.T) {
	p, err := Lookup(GrandConcerto)
	require.NoError(t, err)

	assert.True(t, p.ValidZone(1))
	assert.True(t, p.ValidZone(20))
	assert.False(t, p.ValidZone(0))
	assert.False(t, p.ValidZone(21))

	assert.True(t, p.ValidPhysicalZone(16))
	assert.False(t, p.ValidPhysicalZone(17))

	assert.True(t, p.ValidSource(6))
	assert.False(t, p.ValidSource(7))
}

func TestByProductNumber(t *testing.T) {
	model, ok := ByProductNumber("NV-E6G")
	require.True(t, ok)
	assert.Equal(t, EssentiaG, model)

	_, ok = ByProductNumber("NV-XXX")
	assert.False(t, ok)
}
