package shipping

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Region is a shipping destination zone
type Region string

const (
	RegionMetroManila Region = "metro_manila"
	RegionLuzon       Region = "luzon"
	RegionVisayas     Region = "visayas"
	RegionMindanao    Region = "mindanao"
)

// Band is a coarse weight bucket in kilograms
type Band string

const (
	BandUpToHalf  Band = "0-0.5"
	BandUpToOne   Band = "0.5-1"
	BandUpToThree Band = "1-3"
	BandUpToFive  Band = "3-5"
	BandOverFive  Band = "5+"
)

var (
	ErrInvalidWeight = errors.New("weight must not be negative")
	ErrUnknownRegion = errors.New("unknown shipping region")
	ErrUnknownBand   = errors.New("unknown weight band")
	ErrNoRate        = errors.New("no shipping rate for region and weight band")
)

var regions = []Region{RegionMetroManila, RegionLuzon, RegionVisayas, RegionMindanao}

// bandLimits are inclusive upper bounds, checked in order
var bandLimits = []struct {
	band Band
	max  decimal.Decimal
}{
	{BandUpToHalf, decimal.RequireFromString("0.5")},
	{BandUpToOne, decimal.NewFromInt(1)},
	{BandUpToThree, decimal.NewFromInt(3)},
	{BandUpToFive, decimal.NewFromInt(5)},
}

// Regions returns all regions in display order
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// Bands returns all weight bands from lightest to heaviest
func Bands() []Band {
	out := make([]Band, 0, len(bandLimits)+1)
	for _, l := range bandLimits {
		out = append(out, l.band)
	}
	return append(out, BandOverFive)
}

func ValidRegion(s string) bool {
	for _, r := range regions {
		if string(r) == s {
			return true
		}
	}
	return false
}

func ValidBand(s string) bool {
	for _, b := range Bands() {
		if string(b) == s {
			return true
		}
	}
	return false
}

// ClassifyWeight returns the band for a weight in kilograms
func ClassifyWeight(kg decimal.Decimal) (Band, error) {
	if kg.IsNegative() {
		return "", ErrInvalidWeight
	}
	for _, l := range bandLimits {
		if kg.LessThanOrEqual(l.max) {
			return l.band, nil
		}
	}
	return BandOverFive, nil
}

// Table maps region and band to a flat fee
type Table map[Region]map[Band]decimal.Decimal

// Lookup returns the fee for a region and band
func (t Table) Lookup(region Region, band Band) (decimal.Decimal, bool) {
	byBand, ok := t[region]
	if !ok {
		return decimal.Zero, false
	}
	fee, ok := byBand[band]
	return fee, ok
}

// Set stores a fee, creating the region row if needed
func (t Table) Set(region Region, band Band, fee decimal.Decimal) {
	if t[region] == nil {
		t[region] = make(map[Band]decimal.Decimal)
	}
	t[region][band] = fee
}

// Rate is one entry of a shipping table
type Rate struct {
	Region    Region          `json:"region"`
	Band      Band            `json:"weight_band"`
	Fee       decimal.Decimal `json:"fee"`
	IsDefault bool            `json:"is_default"`
}

// FromRates builds a table from a list of rates
func FromRates(rates []Rate) Table {
	t := make(Table)
	for _, r := range rates {
		t.Set(r.Region, r.Band, r.Fee)
	}
	return t
}

// Merge returns a new table with overrides applied on top of defaults
func Merge(defaults, overrides Table) Table {
	out := make(Table)
	for region, byBand := range defaults {
		for band, fee := range byBand {
			out.Set(region, band, fee)
		}
	}
	for region, byBand := range overrides {
		for band, fee := range byBand {
			out.Set(region, band, fee)
		}
	}
	return out
}

// EffectiveRates lists the merged table with each entry flagged when it comes from defaults
func EffectiveRates(defaults Table, overrides []Rate) []Rate {
	custom := FromRates(overrides)
	merged := Merge(defaults, custom)

	var out []Rate
	for region, byBand := range merged {
		for band, fee := range byBand {
			_, overridden := custom.Lookup(region, band)
			out = append(out, Rate{Region: region, Band: band, Fee: fee, IsDefault: !overridden})
		}
	}
	sortRates(out)
	return out
}

func sortRates(rates []Rate) {
	regionOrder := make(map[Region]int, len(regions))
	for i, r := range regions {
		regionOrder[r] = i
	}
	bandOrder := make(map[Band]int)
	for i, b := range Bands() {
		bandOrder[b] = i
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Region != rates[j].Region {
			return regionOrder[rates[i].Region] < regionOrder[rates[j].Region]
		}
		return bandOrder[rates[i].Band] < bandOrder[rates[j].Band]
	})
}

// Quote is the shipping part of a cart quote
type Quote struct {
	Region        Region          `json:"region"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	Band          Band            `json:"weight_band"`
	Fee           decimal.Decimal `json:"fee"`
	FreeShipping  bool            `json:"free_shipping"`
}

// Calculate prices a shipment of totalWeight to region.
// A positive freeShippingMin waives the fee once subtotal reaches it.
func Calculate(table Table, region Region, totalWeight, subtotal, freeShippingMin decimal.Decimal) (*Quote, error) {
	if !ValidRegion(string(region)) {
		return nil, ErrUnknownRegion
	}
	band, err := ClassifyWeight(totalWeight)
	if err != nil {
		return nil, err
	}

	fee, ok := table.Lookup(region, band)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoRate, region, band)
	}

	q := &Quote{
		Region:        region,
		TotalWeightKg: totalWeight,
		Band:          band,
		Fee:           fee,
	}
	if freeShippingMin.IsPositive() && subtotal.GreaterThanOrEqual(freeShippingMin) {
		q.Fee = decimal.Zero
		q.FreeShipping = true
	}
	return q, nil
}

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultTable     Table
	defaultTableErr  error
	defaultTableOnce sync.Once
)

// DefaultTable returns a copy of the built-in fee table
func DefaultTable() (Table, error) {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = ParseTable(defaultsYAML)
	})
	if defaultTableErr != nil {
		return nil, defaultTableErr
	}
	return Merge(defaultTable, nil), nil
}

// ParseTable decodes a YAML fee table of the form rates: {region: {band: fee}}
func ParseTable(data []byte) (Table, error) {
	var doc struct {
		Rates map[string]map[string]string `yaml:"rates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse shipping table: %w", err)
	}

	t := make(Table)
	for region, byBand := range doc.Rates {
		if !ValidRegion(region) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
		}
		for band, raw := range byBand {
			if !ValidBand(band) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownBand, band)
			}
			fee, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid fee for %s/%s: %w", region, band, err)
			}
			if fee.IsNegative() {
				return nil, fmt.Errorf("negative fee for %s/%s", region, band)
			}
			t.Set(Region(region), Band(band), fee)
		}
	}
	return t, nil
}
