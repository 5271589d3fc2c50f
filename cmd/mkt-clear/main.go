package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

func main() {
	app := newApp()

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "mkt-clear",
		Usage: "Clear classroom markets and replay game scenarios",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "disable logging",
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("quiet") {
				return nil
			}
			config := zap.NewProductionConfig()
			if ctx.Bool("verbose") {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l.With(zap.String("run", uuid.New().String()))
			return nil
		},
		After: func(ctx *cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			clearCmd,
			simulateCmd,
			paramsCmd,
		},
	}
}
