// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/someonegg/mktmatch/scenario"
)

var clearCmd = &cli.Command{
	Name:    "clear",
	Usage:   "Clear a single market",
	Aliases: []string{"c"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Required: true,
			Usage:    "specify the input market.yaml",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "override the allocation model (sequential, inverse)",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "print the computation trace",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the result as JSON",
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			inputFile = ctx.String("input")
			model     = ctx.String("model")
			trace     = ctx.Bool("trace")
			asJSON    = ctx.Bool("json")
		)
		return doClear(ctx, inputFile, model, trace, asJSON)
	},
}

func doClear(ctx *cli.Context, inputFile, model string, trace, asJSON bool) error {
	m, err := scenario.LoadMarket(inputFile)
	if err != nil {
		return err
	}

	r, err := m.Clear(model, trace)
	if err != nil {
		return err
	}
	logger.Info("market cleared",
		zap.String("input", inputFile),
		zap.Int64("demand", r.TotalDemand),
		zap.Int64("sold", r.TotalSold))

	if asJSON {
		return writeJSON(ctx.App.Writer, r)
	}
	printMarket(ctx.App.Writer, r)
	return nil
}
