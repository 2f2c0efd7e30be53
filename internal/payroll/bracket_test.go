package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProgressiveSlices(t *testing.T) {
	brackets := []Bracket{
		{Min: dec(0), Max: decPtr(10000), Rate: dec(0.10)},
		{Min: dec(10000), Max: nil, Rate: dec(0.20)},
	}

	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0"},
		{"inside first bracket", 5000, "500"},
		{"exactly at boundary", 10000, "1000"},
		// 10000*0.10 + 5000*0.20 = 2000, not 15000*0.20
		{"spanning both brackets", 15000, "2000"},
		{"negative amount taxes nothing", -100, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveProgressive(dec(tt.amount), brackets)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestResolveProgressiveDefaultLadder(t *testing.T) {
	// benefice 80000 on the fallback ladder:
	// 10000*0.10 + 40000*0.20 + 30000*0.30 = 1000 + 8000 + 9000
	got, err := ResolveProgressive(dec(80000), DefaultIncomeBrackets())
	require.NoError(t, err)
	assert.True(t, got.Equal(dec(18000)), "got %s", got)
}

func TestResolveProgressiveMonotone(t *testing.T) {
	brackets := DefaultIncomeBrackets()
	prev := decimal.Zero
	for _, amount := range []float64{0, 1, 999.99, 10000, 10000.01, 25000, 50000, 75000, 1000000} {
		got, err := ResolveProgressive(dec(amount), brackets)
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev),
			"tax decreased at amount %v: %s < %s", amount, got, prev)
		prev = got
	}
}

func TestValidateBrackets(t *testing.T) {
	tests := []struct {
		name     string
		brackets []Bracket
		wantErr  bool
	}{
		{"empty", nil, true},
		{"single open-ended", []Bracket{{Min: dec(0), Max: nil, Rate: dec(0.1)}}, false},
		{"open-ended not last", []Bracket{
			{Min: dec(0), Max: nil, Rate: dec(0.1)},
			{Min: dec(100), Max: decPtr(200), Rate: dec(0.2)},
		}, true},
		{"unsorted", []Bracket{
			{Min: dec(100), Max: decPtr(200), Rate: dec(0.2)},
			{Min: dec(0), Max: decPtr(100), Rate: dec(0.1)},
		}, true},
		{"overlapping", []Bracket{
			{Min: dec(0), Max: decPtr(150), Rate: dec(0.1)},
			{Min: dec(100), Max: decPtr(200), Rate: dec(0.2)},
		}, true},
		{"max below min", []Bracket{{Min: dec(100), Max: decPtr(50), Rate: dec(0.1)}}, true},
		{"negative rate", []Bracket{{Min: dec(0), Max: nil, Rate: dec(-0.1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBrackets(tt.brackets)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConfiguration)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWealthTax(t *testing.T) {
	t.Run("single open-ended tier is a surcharge above the threshold", func(t *testing.T) {
		tiers := []Bracket{{Min: dec(1000000), Max: nil, Rate: dec(0.02)}}
		got, err := WealthTax(dec(1500000), tiers)
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(10000)), "got %s", got) // 500000 * 0.02
	})

	t.Run("below the threshold owes nothing", func(t *testing.T) {
		tiers := []Bracket{{Min: dec(1000000), Max: nil, Rate: dec(0.02)}}
		got, err := WealthTax(dec(900000), tiers)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("no tiers means no wealth tax", func(t *testing.T) {
		got, err := WealthTax(dec(1500000), nil)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("multi-tier ladders slice progressively", func(t *testing.T) {
		// 1000000*0.01 + 500000*0.025 = 10000 + 12500
		got, err := WealthTax(dec(1500000), DefaultWealthTiers())
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(22500)), "got %s", got)
	})
}

func TestEffectiveRate(t *testing.T) {
	assert.True(t, EffectiveRate(dec(0), dec(100)).IsZero())
	assert.True(t, EffectiveRate(dec(-50), dec(100)).IsZero())
	assert.True(t, EffectiveRate(dec(80000), dec(18000)).Equal(dec(0.225)))
}
