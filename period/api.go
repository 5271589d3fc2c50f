// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package period uses mktmatch to settle a game period: it clears the market
// for the groups' decisions and books revenue, costs, inventory and capital.
package period

import (
	"github.com/shopspring/decimal"

	"github.com/someonegg/mktmatch"
)

type Machine struct {
	Name                string          `json:"name"`
	Cost                decimal.Decimal `json:"cost"`
	Capacity            int64           `json:"capacity"`
	VariableCostPerUnit decimal.Decimal `json:"variable_cost_per_unit"`
}

var catalog = []Machine{
	{"SmartMini-Fertiger", decimal.NewFromInt(5000), 100, decimal.NewFromInt(6)},
	{"KompaktPro-Produzent", decimal.NewFromInt(12000), 250, decimal.NewFromInt(5)},
	{"FlexiTech-Assembler", decimal.NewFromInt(18000), 350, decimal.NewFromFloat(4.5)},
	{"MegaFlow-Manufaktur", decimal.NewFromInt(25000), 500, decimal.NewFromInt(4)},
}

// Catalog returns the machines a group can buy.
func Catalog() []Machine {
	return append([]Machine(nil), catalog...)
}

func FindMachine(name string) (Machine, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Machine{}, false
}

type GroupState struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Capital           decimal.Decimal `json:"capital"`
	Inventory         int64           `json:"inventory"`
	CumulativeProfit  decimal.Decimal `json:"cumulative_profit"`
	Machines          []Machine       `json:"machines"`
	CumulativeRnd     decimal.Decimal `json:"cumulative_rnd"`
	RndBenefitApplied bool            `json:"rnd_benefit_applied"`
}

// NewGroupState returns a group at the start of the game.
func NewGroupState(id, name string, settings Settings, machines ...Machine) GroupState {
	return GroupState{
		ID:       id,
		Name:     name,
		Capital:  settings.StartingCapital,
		Machines: append([]Machine(nil), machines...),
	}
}

// Capacity is the number of units the group can produce per period.
func (g *GroupState) Capacity() int64 {
	var c int64
	for _, m := range g.Machines {
		c += m.Capacity
	}
	return c
}

type Decision struct {
	Production        int64           `json:"production"`
	SellFromInventory int64           `json:"sell_from_inventory"`
	Price             float64         `json:"price"`
	BuyMarketAnalysis bool            `json:"buy_market_analysis"`
	RndInvestment     decimal.Decimal `json:"rnd_investment"`
	NewMachine        string          `json:"new_machine,omitempty"`
}

// Actions are the instructor's special actions for one period.
type Actions struct {
	DemandBoost        bool `json:"demand_boost" yaml:"demand_boost"`
	NoInventoryCosts   bool `json:"no_inventory_costs" yaml:"no_inventory_costs"`
	FreeMarketAnalysis bool `json:"free_market_analysis" yaml:"free_market_analysis"`
}

const (
	// DemandBoostFactor scales the market saturation under a demand boost.
	DemandBoostFactor = 1.3

	// DefaultVariableCost applies to groups without machines.
	DefaultVariableCost = 5

	// FirstRndPeriod is the first period with R&D investments.
	FirstRndPeriod = 3

	// Machines can be bought every MachinePurchaseInterval periods,
	// starting with FirstMachinePeriod.
	FirstMachinePeriod      = 3
	MachinePurchaseInterval = 3
)

type Settings struct {
	StartingCapital          decimal.Decimal `json:"starting_capital"`
	MarketAnalysisCost       decimal.Decimal `json:"market_analysis_cost"`
	NegativeCashInterestRate decimal.Decimal `json:"negative_cash_interest_rate"`
	InventoryCostPerUnit     decimal.Decimal `json:"inventory_cost_per_unit"`
	RndBenefitThreshold      decimal.Decimal `json:"rnd_benefit_threshold"`
	RndVariableCostReduction decimal.Decimal `json:"rnd_variable_cost_reduction"`
	RndEnabled               bool            `json:"rnd_enabled"`

	Market mktmatch.Params `json:"market"`
}

func DefaultSettings() Settings {
	return Settings{
		StartingCapital:          decimal.NewFromInt(30000),
		MarketAnalysisCost:       decimal.NewFromInt(2000),
		NegativeCashInterestRate: decimal.NewFromFloat(0.15),
		InventoryCostPerUnit:     decimal.NewFromInt(2),
		RndBenefitThreshold:      decimal.NewFromInt(10000),
		RndVariableCostReduction: decimal.NewFromFloat(0.5),
		RndEnabled:               true,
		Market:                   mktmatch.DefaultParams(),
	}
}

// Result is one group's booking for a period. AveragePrice and TotalDemand
// are only disclosed to groups with a market analysis.
type Result struct {
	GroupID string `json:"group_id"`
	Period  int    `json:"period"`

	Price     float64 `json:"price"`
	Offered   int64   `json:"offered"`
	SoldUnits int64   `json:"sold_units"`

	Revenue            decimal.Decimal `json:"revenue"`
	ProductionCosts    decimal.Decimal `json:"production_costs"`
	InventoryCost      decimal.Decimal `json:"inventory_cost"`
	RndCost            decimal.Decimal `json:"rnd_cost"`
	MarketAnalysisCost decimal.Decimal `json:"market_analysis_cost"`
	MachineCost        decimal.Decimal `json:"machine_cost"`
	Interest           decimal.Decimal `json:"interest"`
	TotalCosts         decimal.Decimal `json:"total_costs"`
	Profit             decimal.Decimal `json:"profit"`

	EndingInventory int64           `json:"ending_inventory"`
	EndingCapital   decimal.Decimal `json:"ending_capital"`
	MarketShare     decimal.Decimal `json:"market_share"` // percent of total demand

	AveragePrice decimal.Decimal `json:"average_price"`
	TotalDemand  int64           `json:"total_demand"`
}

type Outcome struct {
	Period  int              `json:"period"`
	Market  *mktmatch.Result `json:"market"`
	Results []Result         `json:"results"`
	States  []GroupState     `json:"states"`
}
