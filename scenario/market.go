// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/someonegg/mktmatch"
)

// Market is a single clearing: parameters and the groups' offers.
type Market struct {
	Model  string                 `yaml:"model"`
	Params mktmatch.Params        `yaml:"market"`
	Groups []mktmatch.SupplyGroup `yaml:"groups"`
}

func LoadMarket(path string) (*Market, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading market file: %w", err)
	}
	return ParseMarket(data)
}

func ParseMarket(data []byte) (*Market, error) {
	m := Market{Params: mktmatch.DefaultParams()}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing market YAML: %w", err)
	}
	return &m, nil
}

// Clear clears the market with the file's model unless model is set.
func (m *Market) Clear(model string, trace bool) (*mktmatch.Result, error) {
	if model == "" {
		model = m.Model
	}
	clearer, err := mktmatch.ClearerByName(model, trace)
	if err != nil {
		return nil, err
	}
	return clearer.Clear(m.Groups, m.Params)
}
