package fx

import (
	"testing"

	"EtfView/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatBars(prices ...float64) []models.Candle {
	out := make([]models.Candle, len(prices))
	for i, p := range prices {
		out[i] = models.Candle{High: p + 0.05, Low: p - 0.05, Close: p}
	}
	return out
}

func TestExtractLevels(t *testing.T) {
	// A clear peak at index 3 and a trough at index 7.
	bars := flatBars(150.0, 150.1, 150.2, 150.8, 150.2, 150.0, 149.8, 149.2, 149.8, 150.0, 150.1)
	tops, bottoms := ExtractLevels(bars, 2)

	require.NotEmpty(t, tops)
	assert.InDelta(t, 150.85, tops[0], 1e-9)
	require.NotEmpty(t, bottoms)
	assert.InDelta(t, 149.15, bottoms[0], 1e-9)
}

func TestExtractLevelsTooShort(t *testing.T) {
	tops, bottoms := ExtractLevels(flatBars(150, 151), 5)
	assert.Empty(t, tops)
	assert.Empty(t, bottoms)
}

func TestCheckProximity(t *testing.T) {
	levels := []float64{150.50, 151.20, 149.80}

	level, ok := CheckProximity(150.45, levels, 0.10)
	require.True(t, ok)
	assert.InDelta(t, 150.50, level, 1e-9)

	// Nearest wins when several qualify.
	level, ok = CheckProximity(150.00, []float64{150.08, 149.95}, 0.10)
	require.True(t, ok)
	assert.InDelta(t, 149.95, level, 1e-9)

	_, ok = CheckProximity(150.00, levels, 0.10)
	assert.False(t, ok)
}

func TestInRange(t *testing.T) {
	in, high, low := InRange(flatBars(150.0, 150.1, 150.05), 0.30)
	assert.True(t, in)
	assert.InDelta(t, 150.15, high, 1e-9)
	assert.InDelta(t, 149.95, low, 1e-9)

	in, _, _ = InRange(flatBars(150.0, 150.5), 0.30)
	assert.False(t, in)

	in, _, _ = InRange(nil, 0.30)
	assert.False(t, in)
}
