// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/someonegg/mktmatch"
	"github.com/someonegg/mktmatch/period"
)

const twoPeriods = `
name: classroom
market:
  min_multiplier: 0.3
settings:
  starting_capital: 20000
groups:
  - id: a
    name: Gruppe A
    machines: [KompaktPro-Produzent]
  - id: b
    capital: 5000
    inventory: 50
    machines: [KompaktPro-Produzent]
periods:
  - decisions:
      a: {production: 200, price: 50}
      b: {production: 250, sell_from_inventory: 50, price: 100, market_analysis: true}
  - actions:
      demand_boost: true
    decisions:
      a: {production: 250, price: 55}
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(twoPeriods))
	require.NoError(t, err)

	assert.Equal(t, "classroom", sc.Name)
	assert.Equal(t, 0.3, sc.Settings.Market.MinMultiplier)
	assert.Equal(t, mktmatch.DefaultReferencePrice, sc.Settings.Market.ReferencePrice)
	assert.Equal(t, 1.0, sc.Settings.Market.MaxMultiplier)
	assert.Equal(t, "2000", sc.Settings.MarketAnalysisCost.String())
	assert.True(t, sc.Settings.RndEnabled)

	require.Len(t, sc.Groups, 2)
	assert.Equal(t, "Gruppe A", sc.Groups[0].Name)
	assert.Equal(t, "20000", sc.Groups[0].Capital.String())
	assert.Equal(t, "b", sc.Groups[1].Name)
	assert.Equal(t, "5000", sc.Groups[1].Capital.String())
	assert.Equal(t, int64(50), sc.Groups[1].Inventory)
	assert.Equal(t, int64(250), sc.Groups[1].Capacity())

	require.Len(t, sc.Periods, 2)
	assert.True(t, sc.Periods[0].Decisions["b"].BuyMarketAnalysis)
	assert.True(t, sc.Periods[1].Actions.DemandBoost)
	assert.Len(t, sc.Periods[1].Decisions, 1)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"Malformed":       "groups: [",
		"NoGroups":        "name: empty",
		"MissingID":       "groups: [{name: x}]",
		"DuplicateID":     "groups: [{id: a}, {id: a}]",
		"UnknownMachine":  "groups: [{id: a, machines: [Replicator]}]",
		"NegativeStock":   "groups: [{id: a, inventory: -4}]",
		"UnknownDecision": "groups: [{id: a}]\nperiods: [{decisions: {b: {production: 1, price: 1}}}]",
		"InvalidMarket":   "market: {reference_price: 0}\ngroups: [{id: a}]",
		"FloorOverCeil":   "market: {min_multiplier: 0.9, max_multiplier: 0.5}\ngroups: [{id: a}]",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoPeriods), 0644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sc.Periods, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReplay(t *testing.T) {
	sc, err := Parse([]byte(twoPeriods))
	require.NoError(t, err)

	settler := period.NewSettler(sc.Settings, nil, zap.NewNop())

	outcomes, err := Replay(context.Background(), settler, sc)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	first := outcomes[0]
	assert.Equal(t, int64(400), first.Market.TotalDemand)
	assert.Equal(t, int64(200), first.Results[0].SoldUnits)
	assert.Equal(t, int64(200), first.Results[1].SoldUnits)
	assert.Equal(t, int64(100), first.States[1].Inventory)

	// b sits out the second period and keeps its first period state
	second := outcomes[1]
	require.Len(t, second.Results, 1)
	assert.Equal(t, 2, second.Period)
	assert.Equal(t, "a", second.Results[0].GroupID)
	assert.Equal(t, first.States[1], second.States[1])
	assert.Equal(t, first.States[0].Capital.Add(second.Results[0].Profit).StringFixed(2),
		second.States[0].Capital.StringFixed(2))

	// the initial groups are not modified by the replay
	assert.Equal(t, "20000", sc.Groups[0].Capital.String())
}

func TestReplay_StopsOnError(t *testing.T) {
	sc, err := Parse([]byte(twoPeriods))
	require.NoError(t, err)

	sc.Periods[1].Decisions["a"] = period.Decision{Production: 9999, Price: 55}

	outcomes, err := Replay(context.Background(), period.NewSettler(sc.Settings, nil, nil), sc)
	assert.ErrorIs(t, err, period.ErrInvalidDecision)
	assert.Len(t, outcomes, 1)
}

func TestReplay_Cancelled(t *testing.T) {
	sc, err := Parse([]byte(twoPeriods))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := Replay(ctx, period.NewSettler(sc.Settings, nil, nil), sc)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
}

const market = `
model: inverse
market:
  softening_factor: 0.5
groups:
  - {name: cheap, quantity: 200, price: 50}
  - {name: reference, quantity: 300, price: 100}
`

func TestMarket(t *testing.T) {
	m, err := ParseMarket([]byte(market))
	require.NoError(t, err)

	assert.Equal(t, mktmatch.ModelInverse, m.Model)
	assert.Equal(t, 0.5, m.Params.SofteningFactor)
	assert.Equal(t, mktmatch.DefaultSaturationFraction, m.Params.SaturationFraction)
	require.Len(t, m.Groups, 2)
	assert.Equal(t, int64(300), m.Groups[1].Quantity)

	t.Run("SequentialOverride", func(t *testing.T) {
		params := m.Params
		params.SofteningFactor = mktmatch.DefaultSofteningFactor
		m := &Market{Groups: m.Groups, Params: params}

		r, err := m.Clear(mktmatch.ModelSequential, false)
		require.NoError(t, err)
		assert.Equal(t, 30000.0, r.TotalRevenue)
	})

	t.Run("FileModel", func(t *testing.T) {
		r, err := m.Clear("", true)
		require.NoError(t, err)
		assert.Equal(t, r.TotalDemand, r.TotalSold)
		assert.NotEmpty(t, r.Trace)
	})

	t.Run("UnknownModel", func(t *testing.T) {
		_, err := m.Clear("auction", false)
		assert.Error(t, err)
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := LoadMarket(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
