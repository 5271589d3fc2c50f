// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package period

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidDecision = errors.New("invalid decision")

// ValidationError lists every problem found in one group's decision.
type ValidationError struct {
	GroupID  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid decision for group %s: %s", e.GroupID, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDecision
}

// MachinePurchaseAllowed reports whether machines can be bought in period.
func MachinePurchaseAllowed(period int) bool {
	return period >= FirstMachinePeriod && (period-FirstMachinePeriod)%MachinePurchaseInterval == 0
}

// ValidateDecision checks a decision against the group's state. It returns
// nil or a *ValidationError.
func ValidateDecision(d Decision, state GroupState, settings Settings, period int) error {
	var problems []string

	capacity := state.Capacity()
	switch {
	case d.Production < 0:
		problems = append(problems, "production must not be negative")
	case d.Production > capacity:
		problems = append(problems, fmt.Sprintf("production %d exceeds capacity %d", d.Production, capacity))
	}

	switch {
	case d.SellFromInventory < 0:
		problems = append(problems, "sell from inventory must not be negative")
	case d.SellFromInventory > state.Inventory:
		problems = append(problems, fmt.Sprintf("sell from inventory %d exceeds inventory %d", d.SellFromInventory, state.Inventory))
	}

	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) || d.Price <= 0 {
		problems = append(problems, "price must be positive")
	}

	if d.RndInvestment.IsNegative() {
		problems = append(problems, "R&D investment must not be negative")
	} else if d.RndInvestment.IsPositive() && (!settings.RndEnabled || period < FirstRndPeriod) {
		problems = append(problems, fmt.Sprintf("R&D is not available in period %d", period))
	}

	if d.NewMachine != "" {
		machine, ok := FindMachine(d.NewMachine)
		switch {
		case !MachinePurchaseAllowed(period):
			problems = append(problems, fmt.Sprintf("machines can only be bought in periods 3, 6, 9, ... (current: %d)", period))
		case !ok:
			problems = append(problems, fmt.Sprintf("unknown machine %q", d.NewMachine))
		case machine.Cost.GreaterThan(state.Capital):
			problems = append(problems, fmt.Sprintf("capital %s does not cover machine cost %s",
				state.Capital.StringFixed(2), machine.Cost.StringFixed(2)))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{GroupID: state.ID, Problems: problems}
	}
	return nil
}
