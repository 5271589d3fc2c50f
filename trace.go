// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mktmatch

import "fmt"

type Step string

const (
	StepTotalSupply  Step = "total_supply"
	StepBaseDemand   Step = "base_demand"
	StepAvgPrice     Step = "avg_price"
	StepElasticity   Step = "elasticity"
	StepTotalDemand  Step = "total_demand"
	StepAllocate     Step = "allocate"
	StepRedistribute Step = "redistribute"
)

// TraceEntry narrates one computation step. Value is the step's main
// quantity (a demand, a price or a sold amount).
type TraceEntry struct {
	Step    Step    `json:"step"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
}

type tracer struct {
	on      bool
	entries []TraceEntry
}

func (t *tracer) add(step Step, value float64, format string, args ...interface{}) {
	if !t.on {
		return
	}
	t.entries = append(t.entries, TraceEntry{
		Step:    step,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	})
}
