// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenario loads market and game scenarios from YAML and replays
// them period by period.
package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/someonegg/mktmatch"
	"github.com/someonegg/mktmatch/period"
)

// Scenario is a resolved game: settings, initial groups and the decisions
// of every period.
type Scenario struct {
	Name     string
	Settings period.Settings
	Groups   []period.GroupState
	Periods  []Period
}

type Period struct {
	Actions   period.Actions
	Decisions map[string]period.Decision
}

type file struct {
	Name     string          `yaml:"name"`
	Market   mktmatch.Params `yaml:"market"`
	Settings settingsSpec    `yaml:"settings"`
	Groups   []groupSpec     `yaml:"groups"`
	Periods  []periodSpec    `yaml:"periods"`
}

type settingsSpec struct {
	StartingCapital          float64 `yaml:"starting_capital"`
	MarketAnalysisCost       float64 `yaml:"market_analysis_cost"`
	NegativeCashInterestRate float64 `yaml:"negative_cash_interest_rate"`
	InventoryCostPerUnit     float64 `yaml:"inventory_cost_per_unit"`
	RndBenefitThreshold      float64 `yaml:"rnd_benefit_threshold"`
	RndVariableCostReduction float64 `yaml:"rnd_variable_cost_reduction"`
	RndEnabled               bool    `yaml:"rnd_enabled"`
}

type groupSpec struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Capital   *float64 `yaml:"capital"`
	Inventory int64    `yaml:"inventory"`
	Machines  []string `yaml:"machines"`
}

type periodSpec struct {
	Actions   period.Actions          `yaml:"actions"`
	Decisions map[string]decisionSpec `yaml:"decisions"`
}

type decisionSpec struct {
	Production        int64   `yaml:"production"`
	SellFromInventory int64   `yaml:"sell_from_inventory"`
	Price             float64 `yaml:"price"`
	MarketAnalysis    bool    `yaml:"market_analysis"`
	Rnd               float64 `yaml:"rnd"`
	NewMachine        string  `yaml:"new_machine"`
}

func defaultFile() file {
	d := period.DefaultSettings()
	return file{
		Market: d.Market,
		Settings: settingsSpec{
			StartingCapital:          d.StartingCapital.InexactFloat64(),
			MarketAnalysisCost:       d.MarketAnalysisCost.InexactFloat64(),
			NegativeCashInterestRate: d.NegativeCashInterestRate.InexactFloat64(),
			InventoryCostPerUnit:     d.InventoryCostPerUnit.InexactFloat64(),
			RndBenefitThreshold:      d.RndBenefitThreshold.InexactFloat64(),
			RndVariableCostReduction: d.RndVariableCostReduction.InexactFloat64(),
			RndEnabled:               d.RndEnabled,
		},
	}
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario. Omitted market and settings fields keep
// their defaults.
func Parse(data []byte) (*Scenario, error) {
	f := defaultFile()
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return f.resolve()
}

func (f *file) resolve() (*Scenario, error) {
	if err := f.Market.Validate(); err != nil {
		return nil, fmt.Errorf("market: %w", err)
	}

	settings := period.Settings{
		StartingCapital:          decimal.NewFromFloat(f.Settings.StartingCapital),
		MarketAnalysisCost:       decimal.NewFromFloat(f.Settings.MarketAnalysisCost),
		NegativeCashInterestRate: decimal.NewFromFloat(f.Settings.NegativeCashInterestRate),
		InventoryCostPerUnit:     decimal.NewFromFloat(f.Settings.InventoryCostPerUnit),
		RndBenefitThreshold:      decimal.NewFromFloat(f.Settings.RndBenefitThreshold),
		RndVariableCostReduction: decimal.NewFromFloat(f.Settings.RndVariableCostReduction),
		RndEnabled:               f.Settings.RndEnabled,
		Market:                   f.Market,
	}

	sc := &Scenario{
		Name:     f.Name,
		Settings: settings,
	}

	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("scenario has no groups")
	}
	seen := make(map[string]bool, len(f.Groups))
	for i, g := range f.Groups {
		if g.ID == "" {
			return nil, fmt.Errorf("group %d has no id", i)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("duplicate group id %q", g.ID)
		}
		seen[g.ID] = true

		var machines []period.Machine
		for _, name := range g.Machines {
			m, ok := period.FindMachine(name)
			if !ok {
				return nil, fmt.Errorf("group %q: unknown machine %q", g.ID, name)
			}
			machines = append(machines, m)
		}

		name := g.Name
		if name == "" {
			name = g.ID
		}
		state := period.NewGroupState(g.ID, name, settings, machines...)
		if g.Capital != nil {
			state.Capital = decimal.NewFromFloat(*g.Capital)
		}
		if g.Inventory < 0 {
			return nil, fmt.Errorf("group %q: negative inventory", g.ID)
		}
		state.Inventory = g.Inventory
		sc.Groups = append(sc.Groups, state)
	}

	for i, p := range f.Periods {
		decisions := make(map[string]period.Decision, len(p.Decisions))
		for id, d := range p.Decisions {
			if !seen[id] {
				return nil, fmt.Errorf("period %d: decision for unknown group %q", i+1, id)
			}
			decisions[id] = period.Decision{
				Production:        d.Production,
				SellFromInventory: d.SellFromInventory,
				Price:             d.Price,
				BuyMarketAnalysis: d.MarketAnalysis,
				RndInvestment:     decimal.NewFromFloat(d.Rnd),
				NewMachine:        d.NewMachine,
			}
		}
		sc.Periods = append(sc.Periods, Period{Actions: p.Actions, Decisions: decisions})
	}

	return sc, nil
}

// Replay settles the scenario's periods in order, carrying every group's
// state into the next period. It stops at the first failing period or when
// ctx is done.
func Replay(ctx context.Context, settler *period.Settler, sc *Scenario) ([]*period.Outcome, error) {
	logger := settler.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	states := sc.Groups
	outcomes := make([]*period.Outcome, 0, len(sc.Periods))

	for i, p := range sc.Periods {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		n := i + 1
		out, err := settler.Settle(n, states, p.Decisions, p.Actions)
		if err != nil {
			return outcomes, fmt.Errorf("period %d: %w", n, err)
		}
		outcomes = append(outcomes, out)
		states = out.States
	}

	logger.Info("scenario replayed",
		zap.String("scenario", sc.Name),
		zap.Int("periods", len(outcomes)),
		zap.Int("groups", len(states)))

	return outcomes, nil
}
