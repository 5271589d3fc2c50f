// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mktmatch

import "math"

type inverseClearer struct {
	trace bool
}

// InverseClearer gives every group a share of demand proportional to the
// inverse of its price. Demand a group cannot serve is handed to groups
// with spare supply, cheapest first.
func InverseClearer(trace bool) Clearer {
	return inverseClearer{trace}
}

func (c inverseClearer) Clear(groups []SupplyGroup, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateGroups(groups); err != nil {
		return nil, err
	}

	t := &tracer{on: c.trace}
	r := assess(groups, params, t)

	inverseSum := 0.0
	for _, g := range groups {
		inverseSum += 1 / g.Price
	}

	unallocated := r.TotalDemand
	for i := range r.Sales {
		s := &r.Sales[i]
		share := 0.0
		if inverseSum > 0 {
			share = (1 / s.Price) / inverseSum
		}
		s.Target = int64(math.Floor(share * float64(r.TotalDemand)))
		s.Sold = minInt64(s.Target, s.Offered)
		unallocated -= s.Sold

		t.add(StepAllocate, float64(s.Sold), "%s at %.2f: share %.2f%%, target %d, offered %d, sold %d",
			s.Name, s.Price, share*100, s.Target, s.Offered, s.Sold)
	}

	for rank, i := range priceOrder(groups) {
		s := &r.Sales[i]
		s.Rank = rank
		if unallocated <= 0 {
			continue
		}
		take := minInt64(s.Offered-s.Sold, unallocated)
		if take <= 0 {
			continue
		}
		s.Sold += take
		unallocated -= take

		t.add(StepRedistribute, float64(take), "%s at %.2f takes %d from overflow, sold %d",
			s.Name, s.Price, take, s.Sold)
	}

	r.finish(t)
	return r, nil
}
