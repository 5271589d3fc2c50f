// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mktmatch

import (
	"math"
	"sort"
)

// Multiplier is the clamped price elasticity multiplier for an average price.
func (p Params) Multiplier(avgPrice float64) (raw, clamped float64) {
	ratio := avgPrice / p.ReferencePrice
	raw = 1 - p.ElasticityFactor*(ratio-1)
	clamped = math.Max(p.MinMultiplier, math.Min(p.MaxMultiplier, raw))
	return
}

// assess computes the market-level demand of the groups and prepares one
// unallocated sale per group. Inputs must have been validated.
func assess(groups []SupplyGroup, params Params, t *tracer) *Result {
	r := &Result{
		Sales: make([]Sale, len(groups)),
	}

	var weighted float64
	for i, g := range groups {
		r.Sales[i] = Sale{
			Index:   i,
			Name:    g.Name,
			Offered: g.Quantity,
			Price:   g.Price,
		}
		r.TotalSupply += g.Quantity
		weighted += g.Price * float64(g.Quantity)
	}
	t.add(StepTotalSupply, float64(r.TotalSupply), "%d groups offer %d units", len(groups), r.TotalSupply)

	r.BaseDemand = params.SaturationFraction * float64(r.TotalSupply)
	t.add(StepBaseDemand, r.BaseDemand, "%.2f x %d = %.2f", params.SaturationFraction, r.TotalSupply, r.BaseDemand)

	if r.TotalSupply > 0 {
		r.AvgPrice = weighted / float64(r.TotalSupply)
		t.add(StepAvgPrice, r.AvgPrice, "weighted average price %.2f", r.AvgPrice)
	} else {
		r.AvgPrice = params.ReferencePrice
		t.add(StepAvgPrice, r.AvgPrice, "no supply, reference price %.2f", r.AvgPrice)
	}

	r.PriceRatio = r.AvgPrice / params.ReferencePrice
	r.RawMultiplier, r.Multiplier = params.Multiplier(r.AvgPrice)
	t.add(StepElasticity, r.Multiplier, "ratio %.4f, raw %.4f, clamped to [%.2f, %.2f] = %.4f",
		r.PriceRatio, r.RawMultiplier, params.MinMultiplier, params.MaxMultiplier, r.Multiplier)

	r.TotalDemand = int64(math.Floor(r.BaseDemand * r.Multiplier))
	t.add(StepTotalDemand, float64(r.TotalDemand), "%.2f x %.4f = %d", r.BaseDemand, r.Multiplier, r.TotalDemand)

	return r
}

// priceOrder returns group indexes sorted by price, cheapest first. Groups
// with equal prices keep their input order.
func priceOrder(groups []SupplyGroup) []int {
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].Price < groups[order[j]].Price
	})
	return order
}

func (r *Result) finish(t *tracer) {
	for i := range r.Sales {
		s := &r.Sales[i]
		s.Revenue = float64(s.Sold) * s.Price
		r.TotalSold += s.Sold
		r.TotalRevenue += s.Revenue
	}
	r.Unmet = r.TotalDemand - r.TotalSold
	r.Trace = t.entries
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
