// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/someonegg/mktmatch"
	"github.com/someonegg/mktmatch/period"
	"github.com/someonegg/mktmatch/scenario"
)

var simulateCmd = &cli.Command{
	Name:    "simulate",
	Usage:   "Replay a multi-period game scenario",
	Aliases: []string{"s"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "scenario",
			Required: true,
			Usage:    "specify the input scenario.yaml",
		},
		&cli.StringFlag{
			Name:  "model",
			Value: mktmatch.ModelSequential,
			Usage: "specify the allocation model (sequential, inverse)",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "specify the output results.json",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "print the market computation trace of every period",
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			scenarioFile = ctx.String("scenario")
			model        = ctx.String("model")
			outFile      = ctx.String("out")
			trace        = ctx.Bool("trace")
		)
		return doSimulate(ctx, scenarioFile, model, outFile, trace)
	},
}

func doSimulate(ctx *cli.Context, scenarioFile, model, outFile string, trace bool) error {
	sc, err := scenario.Load(scenarioFile)
	if err != nil {
		return fmt.Errorf("load scenario file failed: %w", err)
	}

	clearer, err := mktmatch.ClearerByName(model, trace)
	if err != nil {
		return err
	}

	settler := period.NewSettler(sc.Settings, clearer, logger.With(zap.String("scenario", sc.Name)))

	outcomes, err := scenario.Replay(ctx.Context, settler, sc)
	for _, out := range outcomes {
		printOutcome(ctx.App.Writer, out, trace)
	}
	if err != nil {
		return err
	}
	if len(outcomes) > 0 {
		printStandings(ctx.App.Writer, outcomes[len(outcomes)-1].States)
	}

	if outFile == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, outcomes); err != nil {
		return err
	}
	if err := os.WriteFile(outFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write results file failed: %w", err)
	}
	return nil
}
