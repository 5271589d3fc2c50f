// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mktmatch

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

// MaxTotalQuantity bounds the summed supply so that quantities stay exact
// as float64.
const MaxTotalQuantity int64 = 1 << 53

// InvalidInputError reports a rejected group or parameter. Group is -1 when
// the problem is in Params.
type InvalidInputError struct {
	Group  int
	Name   string
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Group < 0 {
		return fmt.Sprintf("invalid params: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid group %d (%q): %s %s", e.Group, e.Name, e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func paramError(field, reason string) error {
	return &InvalidInputError{Group: -1, Field: field, Reason: reason}
}

func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"saturation_fraction", p.SaturationFraction},
		{"reference_price", p.ReferencePrice},
		{"elasticity_factor", p.ElasticityFactor},
		{"min_multiplier", p.MinMultiplier},
		{"max_multiplier", p.MaxMultiplier},
		{"softening_factor", p.SofteningFactor},
	} {
		if !finite(f.v) {
			return paramError(f.name, "must be finite")
		}
	}

	switch {
	case p.ReferencePrice <= 0:
		return paramError("reference_price", "must be positive")
	case p.SaturationFraction < 0:
		return paramError("saturation_fraction", "must not be negative")
	case p.ElasticityFactor < 0:
		return paramError("elasticity_factor", "must not be negative")
	case p.MaxMultiplier <= 0 || p.MaxMultiplier > 1:
		return paramError("max_multiplier", "must be in (0, 1]")
	case p.MinMultiplier < 0 || p.MinMultiplier > p.MaxMultiplier:
		return paramError("min_multiplier", "must be in [0, max_multiplier]")
	case p.SofteningFactor < 0 || p.SofteningFactor > 1:
		return paramError("softening_factor", "must be in [0, 1]")
	}
	return nil
}

func validateGroups(groups []SupplyGroup) error {
	var total int64
	for i := range groups {
		g := &groups[i]
		if g.Quantity < 0 {
			return &InvalidInputError{Group: i, Name: g.Name, Field: "quantity", Reason: "must not be negative"}
		}
		if g.Quantity > MaxTotalQuantity-total {
			return &InvalidInputError{Group: i, Name: g.Name, Field: "quantity", Reason: "pushes total supply above 2^53"}
		}
		total += g.Quantity
		if !finite(g.Price) || g.Price <= 0 {
			return &InvalidInputError{Group: i, Name: g.Name, Field: "price", Reason: "must be positive and finite"}
		}
	}
	return nil
}
