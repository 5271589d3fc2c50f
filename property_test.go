// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mktmatch

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func randomMarket(rnd *rand.Rand) ([]SupplyGroup, Params) {
	groups := make([]SupplyGroup, rnd.Intn(8))
	for i := range groups {
		groups[i] = SupplyGroup{
			Name:     string(rune('a' + i)),
			Quantity: rnd.Int63n(2000),
			Price:    0.01 + rnd.Float64()*float64(rnd.Intn(5)*100+1),
		}
		if rnd.Intn(10) == 0 {
			groups[i].Quantity = 0
		}
	}

	params := DefaultParams()
	if rnd.Intn(2) == 0 {
		params = LegacyParams()
	}
	params.SofteningFactor = rnd.Float64()
	params.ElasticityFactor = rnd.Float64() * 2
	return groups, params
}

func TestClearers_Invariants(t *testing.T) {
	clearers := map[string]Clearer{
		ModelSequential: SequentialClearer(false),
		ModelInverse:    InverseClearer(false),
	}

	rnd := rand.New(rand.NewSource(20220506))

	for n := 0; n < 500; n++ {
		groups, params := randomMarket(rnd)

		for name, c := range clearers {
			r, err := c.Clear(groups, params)
			require.NoError(t, err)

			if r.Multiplier < params.MinMultiplier || r.Multiplier > params.MaxMultiplier {
				t.Fatalf("%s #%d: multiplier %v outside [%v, %v]",
					name, n, r.Multiplier, params.MinMultiplier, params.MaxMultiplier)
			}

			sum := int64(0)
			for _, s := range r.Sales {
				if s.Sold < 0 || s.Sold > s.Offered {
					t.Fatalf("%s #%d: group %s sold %d of %d", name, n, s.Name, s.Sold, s.Offered)
				}
				sum += s.Sold
			}
			if sum > r.TotalDemand {
				t.Fatalf("%s #%d: sold %d exceeds demand %d", name, n, sum, r.TotalDemand)
			}
			if sum != r.TotalSold || r.Unmet != r.TotalDemand-sum {
				t.Fatalf("%s #%d: inconsistent totals %+v", name, n, r)
			}

			again, err := c.Clear(groups, params)
			require.NoError(t, err)
			if diff := cmp.Diff(r, again); diff != "" {
				t.Fatalf("%s #%d: not deterministic:\n%s", name, n, diff)
			}
		}
	}
}

func TestSequentialClearer_LastGroupAbsorbsRemaining(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for n := 0; n < 300; n++ {
		groups, params := randomMarket(rnd)
		if len(groups) == 0 {
			continue
		}

		r, err := ClearMarket(groups, params)
		require.NoError(t, err)

		var last *Sale
		others := int64(0)
		for i := range r.Sales {
			if r.Sales[i].Rank == len(r.Sales)-1 {
				last = &r.Sales[i]
				continue
			}
			others += r.Sales[i].Sold
		}
		require.NotNil(t, last)

		remaining := r.TotalDemand - others
		if last.Target != remaining {
			t.Fatalf("#%d: last target %d, remaining %d", n, last.Target, remaining)
		}
		if want := minInt64(remaining, last.Offered); last.Sold != want {
			t.Fatalf("#%d: last sold %d, want %d", n, last.Sold, want)
		}
	}
}
