// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package period

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/someonegg/mktmatch"
)

const cents = 2

var hundred = decimal.NewFromInt(100)

var ErrDuplicateGroup = errors.New("duplicate group id")

type Settler struct {
	Settings Settings

	// Clearer defaults to the sequential model.
	Clearer mktmatch.Clearer

	Logger *zap.Logger
}

func NewSettler(settings Settings, clearer mktmatch.Clearer, logger *zap.Logger) *Settler {
	return &Settler{
		Settings: settings,
		Clearer:  clearer,
		Logger:   logger,
	}
}

func (s *Settler) init() (mktmatch.Clearer, *zap.Logger) {
	clearer, logger := s.Clearer, s.Logger
	if clearer == nil {
		clearer = mktmatch.SequentialClearer(false)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return clearer, logger
}

// Settle books one period. Groups without a decision sit the period out and
// keep their state. Every decision is validated before the market clears.
func (s *Settler) Settle(period int, states []GroupState, decisions map[string]Decision, actions Actions) (*Outcome, error) {
	clearer, logger := s.init()
	logger = logger.With(zap.Int("period", period))

	ids := make(map[string]struct{}, len(states))
	for i := range states {
		if _, dup := ids[states[i].ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, states[i].ID)
		}
		ids[states[i].ID] = struct{}{}
	}
	for id := range decisions {
		if _, ok := ids[id]; !ok {
			return nil, fmt.Errorf("decision for unknown group %q", id)
		}
	}

	var (
		players []int
		groups  []mktmatch.SupplyGroup
	)
	for i := range states {
		state := &states[i]
		d, ok := decisions[state.ID]
		if !ok {
			logger.Warn("group has no decision", zap.String("group", state.ID))
			continue
		}
		if err := ValidateDecision(d, *state, s.Settings, period); err != nil {
			return nil, err
		}
		players = append(players, i)
		groups = append(groups, mktmatch.SupplyGroup{
			Name:     state.ID,
			Quantity: d.Production + d.SellFromInventory,
			Price:    d.Price,
			Info:     state,
		})
	}
	params := s.Settings.Market
	if actions.DemandBoost {
		params.SaturationFraction *= DemandBoostFactor
	}

	market, err := clearer.Clear(groups, params)
	if err != nil {
		return nil, fmt.Errorf("clear market: %w", err)
	}
	logger.Info("market cleared",
		zap.Int("groups", len(groups)),
		zap.Int64("supply", market.TotalSupply),
		zap.Float64("avg_price", market.AvgPrice),
		zap.Float64("multiplier", market.Multiplier),
		zap.Int64("demand", market.TotalDemand),
		zap.Int64("sold", market.TotalSold),
		zap.Int64("unmet", market.Unmet))

	outcome := &Outcome{
		Period:  period,
		Market:  market,
		Results: make([]Result, 0, len(players)),
		States:  make([]GroupState, len(states)),
	}
	copy(outcome.States, states)

	for n, i := range players {
		state := states[i]
		sale := market.Sales[n]
		r, next := s.book(period, state, decisions[state.ID], sale, market, actions)

		logger.Debug("group booked",
			zap.String("group", state.ID),
			zap.Int64("sold", r.SoldUnits),
			zap.String("revenue", r.Revenue.StringFixed(cents)),
			zap.String("profit", r.Profit.StringFixed(cents)),
			zap.String("capital", r.EndingCapital.StringFixed(cents)))

		outcome.Results = append(outcome.Results, r)
		outcome.States[i] = next
	}

	return outcome, nil
}

func (s *Settler) book(period int, state GroupState, d Decision, sale mktmatch.Sale,
	market *mktmatch.Result, actions Actions) (Result, GroupState) {

	settings := s.Settings

	r := Result{
		GroupID:   state.ID,
		Period:    period,
		Price:     d.Price,
		Offered:   sale.Offered,
		SoldUnits: sale.Sold,
	}

	r.Revenue = decimal.NewFromInt(sale.Sold).Mul(decimal.NewFromFloat(d.Price)).Round(cents)

	varCost := decimal.NewFromInt(DefaultVariableCost)
	if len(state.Machines) > 0 {
		varCost = state.Machines[0].VariableCostPerUnit
	}
	if state.RndBenefitApplied {
		varCost = varCost.Sub(settings.RndVariableCostReduction.Mul(varCost))
		if varCost.IsNegative() {
			varCost = decimal.Zero
		}
	}
	r.ProductionCosts = decimal.NewFromInt(d.Production).Mul(varCost).Round(cents)

	r.EndingInventory = state.Inventory + d.Production - sale.Sold
	if !actions.NoInventoryCosts {
		r.InventoryCost = decimal.NewFromInt(r.EndingInventory).Mul(settings.InventoryCostPerUnit).Round(cents)
	}

	r.RndCost = d.RndInvestment.Round(cents)

	analysis := d.BuyMarketAnalysis || actions.FreeMarketAnalysis
	if d.BuyMarketAnalysis && !actions.FreeMarketAnalysis {
		r.MarketAnalysisCost = settings.MarketAnalysisCost.Round(cents)
	}

	machines := state.Machines
	if d.NewMachine != "" {
		if m, ok := FindMachine(d.NewMachine); ok {
			r.MachineCost = m.Cost
			machines = append(append([]Machine(nil), state.Machines...), m)
		}
	}

	costs := r.ProductionCosts.Add(r.InventoryCost).Add(r.RndCost).Add(r.MarketAnalysisCost).Add(r.MachineCost)
	profitBeforeInterest := r.Revenue.Sub(costs)

	capital := state.Capital.Add(profitBeforeInterest)
	if capital.IsNegative() {
		r.Interest = capital.Abs().Mul(settings.NegativeCashInterestRate).Round(cents)
		capital = capital.Sub(r.Interest)
	}

	r.TotalCosts = costs.Add(r.Interest)
	r.Profit = profitBeforeInterest.Sub(r.Interest)
	r.EndingCapital = capital

	if market.TotalDemand > 0 {
		r.MarketShare = decimal.NewFromInt(sale.Sold).Mul(hundred).
			Div(decimal.NewFromInt(market.TotalDemand)).Round(cents)
	}
	if analysis {
		r.AveragePrice = decimal.NewFromFloat(market.AvgPrice).Round(cents)
		r.TotalDemand = market.TotalDemand
	}

	next := state
	next.Capital = capital
	next.Inventory = r.EndingInventory
	next.CumulativeProfit = state.CumulativeProfit.Add(r.Profit)
	next.Machines = machines
	next.CumulativeRnd = state.CumulativeRnd.Add(r.RndCost)
	next.RndBenefitApplied = state.RndBenefitApplied ||
		next.CumulativeRnd.GreaterThanOrEqual(settings.RndBenefitThreshold)

	return r, next
}
