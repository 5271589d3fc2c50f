// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/someonegg/mktmatch"
)

var paramsCmd = &cli.Command{
	Name:  "params",
	Usage: "Print the default market parameters as YAML",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "legacy",
			Usage: "use the 30% elasticity floor",
		},
	},
	Action: func(ctx *cli.Context) error {
		params := mktmatch.DefaultParams()
		if ctx.Bool("legacy") {
			params = mktmatch.LegacyParams()
		}

		enc := yaml.NewEncoder(ctx.App.Writer)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(struct {
			Market mktmatch.Params `yaml:"market"`
		}{params})
	},
}
