// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mktmatch clears a single-period market of competing supply groups:
// it derives total demand from the offered supply and the supply-weighted
// average price, then allocates that demand to the groups in price order.
package mktmatch

import "fmt"

type Clearer interface {
	Clear(groups []SupplyGroup, params Params) (*Result, error)
}

// SupplyGroup is one seller's offer for a period.
type SupplyGroup struct {
	Name     string      `json:"name" yaml:"name"`
	Quantity int64       `json:"quantity" yaml:"quantity"` // production + carried inventory
	Price    float64     `json:"price" yaml:"price"`       // asking price per unit
	Info     interface{} `json:"-" yaml:"-"`
}

// Params holds the market constants. The multiplier is always clamped to
// [MinMultiplier, MaxMultiplier].
type Params struct {
	SaturationFraction float64 `json:"saturation_fraction" yaml:"saturation_fraction"`
	ReferencePrice     float64 `json:"reference_price" yaml:"reference_price"`
	ElasticityFactor   float64 `json:"elasticity_factor" yaml:"elasticity_factor"`
	MinMultiplier      float64 `json:"min_multiplier" yaml:"min_multiplier"`
	MaxMultiplier      float64 `json:"max_multiplier" yaml:"max_multiplier"`
	SofteningFactor    float64 `json:"softening_factor" yaml:"softening_factor"`
}

const (
	DefaultSaturationFraction = 0.8
	DefaultReferencePrice     = 100.0
	DefaultElasticityFactor   = 0.8
	DefaultMinMultiplier      = 0.01
	DefaultMaxMultiplier      = 1.0
	DefaultSofteningFactor    = 0.8

	// LegacyMinMultiplier is the 30% floor used before extreme prices were
	// allowed to collapse demand to 1%.
	LegacyMinMultiplier = 0.3
)

func DefaultParams() Params {
	return Params{
		SaturationFraction: DefaultSaturationFraction,
		ReferencePrice:     DefaultReferencePrice,
		ElasticityFactor:   DefaultElasticityFactor,
		MinMultiplier:      DefaultMinMultiplier,
		MaxMultiplier:      DefaultMaxMultiplier,
		SofteningFactor:    DefaultSofteningFactor,
	}
}

func LegacyParams() Params {
	p := DefaultParams()
	p.MinMultiplier = LegacyMinMultiplier
	return p
}

// Sale is the outcome for one supply group.
type Sale struct {
	Index   int    `json:"index"` // position in the input
	Name    string `json:"name"`
	Rank    int    `json:"rank"` // 0 is the cheapest
	Offered int64  `json:"offered"`

	Price   float64 `json:"price"`
	Target  int64   `json:"target"`
	Sold    int64   `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// Result is the market-level outcome. Sales are in input order.
type Result struct {
	TotalSupply   int64   `json:"total_supply"`
	BaseDemand    float64 `json:"base_demand"`
	AvgPrice      float64 `json:"avg_price"`
	PriceRatio    float64 `json:"price_ratio"`
	RawMultiplier float64 `json:"raw_multiplier"`
	Multiplier    float64 `json:"multiplier"`
	TotalDemand   int64   `json:"total_demand"`

	Sales        []Sale  `json:"sales"`
	TotalSold    int64   `json:"total_sold"`
	Unmet        int64   `json:"unmet"`
	TotalRevenue float64 `json:"total_revenue"`

	Trace []TraceEntry `json:"trace,omitempty"`
}

const (
	ModelSequential = "sequential"
	ModelInverse    = "inverse"
)

// ClearerByName resolves an allocation model name.
func ClearerByName(name string, trace bool) (Clearer, error) {
	switch name {
	case "", ModelSequential:
		return SequentialClearer(trace), nil
	case ModelInverse:
		return InverseClearer(trace), nil
	}
	return nil, fmt.Errorf("unknown allocation model %q", name)
}
