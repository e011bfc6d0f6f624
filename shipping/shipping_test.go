package shipping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassifyWeight(t *testing.T) {
	tests := []struct {
		weight string
		want   Band
	}{
		{"0", BandUpToHalf},
		{"0.25", BandUpToHalf},
		{"0.5", BandUpToHalf},
		{"0.51", BandUpToOne},
		{"1", BandUpToOne},
		{"1.2", BandUpToThree},
		{"3", BandUpToThree},
		{"4.99", BandUpToFive},
		{"5", BandUpToFive},
		{"5.01", BandOverFive},
		{"42", BandOverFive},
	}

	for _, tt := range tests {
		t.Run(tt.weight, func(t *testing.T) {
			band, err := ClassifyWeight(d(tt.weight))
			require.NoError(t, err)
			assert.Equal(t, tt.want, band)
		})
	}

	t.Run("negative weight", func(t *testing.T) {
		_, err := ClassifyWeight(d("-0.1"))
		assert.ErrorIs(t, err, ErrInvalidWeight)
	})
}

func TestDefaultTable(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	for _, region := range Regions() {
		for _, band := range Bands() {
			fee, ok := table.Lookup(region, band)
			assert.True(t, ok, "missing default rate for %s/%s", region, band)
			assert.True(t, fee.IsPositive())
		}
	}

	// Mutating the returned copy must not leak into later calls
	table.Set(RegionLuzon, BandUpToHalf, d("1"))
	again, err := DefaultTable()
	require.NoError(t, err)
	fee, _ := again.Lookup(RegionLuzon, BandUpToHalf)
	assert.True(t, fee.Equal(d("95")))
}

func TestParseTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := ParseTable([]byte("rates:\n  visayas:\n    \"1-3\": \"199.50\"\n"))
		require.NoError(t, err)
		fee, ok := table.Lookup(RegionVisayas, BandUpToThree)
		assert.True(t, ok)
		assert.Equal(t, "199.5", fee.String())
	})

	t.Run("unknown region", func(t *testing.T) {
		_, err := ParseTable([]byte("rates:\n  mars:\n    \"1-3\": \"10\"\n"))
		assert.ErrorIs(t, err, ErrUnknownRegion)
	})

	t.Run("unknown band", func(t *testing.T) {
		_, err := ParseTable([]byte("rates:\n  luzon:\n    \"2-4\": \"10\"\n"))
		assert.ErrorIs(t, err, ErrUnknownBand)
	})

	t.Run("bad fee", func(t *testing.T) {
		_, err := ParseTable([]byte("rates:\n  luzon:\n    \"1-3\": \"ten\"\n"))
		assert.Error(t, err)
	})
}

func TestEffectiveRates(t *testing.T) {
	defaults := Table{}
	defaults.Set(RegionLuzon, BandUpToHalf, d("95"))
	defaults.Set(RegionLuzon, BandUpToOne, d("125"))
	defaults.Set(RegionMetroManila, BandUpToHalf, d("85"))

	got := EffectiveRates(defaults, []Rate{
		{Region: RegionLuzon, Band: BandUpToOne, Fee: d("99")},
		{Region: RegionMindanao, Band: BandOverFive, Fee: d("400")},
	})

	want := []Rate{
		{Region: RegionMetroManila, Band: BandUpToHalf, Fee: d("85"), IsDefault: true},
		{Region: RegionLuzon, Band: BandUpToHalf, Fee: d("95"), IsDefault: true},
		{Region: RegionLuzon, Band: BandUpToOne, Fee: d("99"), IsDefault: false},
		{Region: RegionMindanao, Band: BandOverFive, Fee: d("400"), IsDefault: false},
	}

	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("EffectiveRates mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculate(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	tests := []struct {
		name     string
		region   Region
		weight   string
		subtotal string
		freeMin  string
		wantBand Band
		wantFee  string
		wantFree bool
		wantErr  error
	}{
		{
			name:     "light parcel to Metro Manila",
			region:   RegionMetroManila,
			weight:   "0.3",
			subtotal: "500",
			freeMin:  "0",
			wantBand: BandUpToHalf,
			wantFee:  "85",
		},
		{
			name:     "heavy parcel to Mindanao",
			region:   RegionMindanao,
			weight:   "7.5",
			subtotal: "500",
			freeMin:  "0",
			wantBand: BandOverFive,
			wantFee:  "350",
		},
		{
			name:     "free shipping threshold reached",
			region:   RegionLuzon,
			weight:   "2",
			subtotal: "1500",
			freeMin:  "1500",
			wantBand: BandUpToThree,
			wantFee:  "0",
			wantFree: true,
		},
		{
			name:     "free shipping threshold not reached",
			region:   RegionLuzon,
			weight:   "2",
			subtotal: "1499.99",
			freeMin:  "1500",
			wantBand: BandUpToThree,
			wantFee:  "180",
		},
		{
			name:     "unknown region",
			region:   Region("abroad"),
			weight:   "1",
			subtotal: "100",
			freeMin:  "0",
			wantErr:  ErrUnknownRegion,
		},
		{
			name:     "negative weight",
			region:   RegionLuzon,
			weight:   "-1",
			subtotal: "100",
			freeMin:  "0",
			wantErr:  ErrInvalidWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Calculate(table, tt.region, d(tt.weight), d(tt.subtotal), d(tt.freeMin))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBand, q.Band)
			assert.True(t, q.Fee.Equal(d(tt.wantFee)), "fee %s", q.Fee)
			assert.Equal(t, tt.wantFree, q.FreeShipping)
		})
	}

	t.Run("missing rate", func(t *testing.T) {
		sparse := Table{}
		sparse.Set(RegionLuzon, BandUpToHalf, d("95"))
		_, err := Calculate(sparse, RegionLuzon, d("2"), d("0"), d("0"))
		assert.ErrorIs(t, err, ErrNoRate)
	})
}
