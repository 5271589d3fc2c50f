// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mktmatch

import "math"

type sequentialClearer struct {
	trace bool
}

// SequentialClearer allocates demand cheapest-first. Every group but the
// last is offered the softened share of the remaining demand; the last one
// is offered all of it. Demand left after the last group is lost.
func SequentialClearer(trace bool) Clearer {
	return sequentialClearer{trace}
}

// ClearMarket clears the market with the sequential softening model.
func ClearMarket(groups []SupplyGroup, params Params) (*Result, error) {
	return SequentialClearer(false).Clear(groups, params)
}

func (c sequentialClearer) Clear(groups []SupplyGroup, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateGroups(groups); err != nil {
		return nil, err
	}

	t := &tracer{on: c.trace}
	r := assess(groups, params, t)

	order := priceOrder(groups)
	remaining := r.TotalDemand

	for rank, i := range order {
		s := &r.Sales[i]
		s.Rank = rank

		if rank == len(order)-1 {
			s.Target = remaining
		} else {
			s.Target = int64(math.Floor(float64(remaining) * params.SofteningFactor))
		}
		s.Sold = minInt64(s.Target, s.Offered)
		remaining -= s.Sold

		t.add(StepAllocate, float64(s.Sold), "#%d %s at %.2f: target %d, offered %d, sold %d, remaining %d",
			rank+1, s.Name, s.Price, s.Target, s.Offered, s.Sold, remaining)
	}

	r.finish(t)
	return r, nil
}
