// Command cutflow is the analysis-configuration CLI: it lints a
// configuration file and prints the category space it defines. The
// binary carries the built-in cut and weight catalogs; analyses with
// custom cuts or weights link their own binary against the libraries.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hepstack/cutflow/internal/config"
	"github.com/hepstack/cutflow/internal/domain"
	"github.com/hepstack/cutflow/internal/selection"
	"github.com/hepstack/cutflow/internal/weights"
)

var (
	version = "v0.0.1-default"
	commit  = ""

	debug = false

	debugFlag = &cli.BoolFlag{
		Name:        "debug",
		Usage:       "Prints verbose logs (optional, default: false)",
		Destination: &debug,
	}

	configFlag = &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Path to the analysis configuration file",
		Required: true,
	}
)

func main() {
	app := &cli.App{
		Name:            "cutflow",
		Version:         fmt.Sprintf("%s (commit: %s)", version, commit),
		Usage:           "Lint and inspect analysis configurations",
		HideHelpCommand: true,
		Flags:           []cli.Flag{debugFlag},
		Before: func(*cli.Context) error {
			initLogging()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate a configuration against the built-in cut and weight catalogs",
				Flags:  []cli.Flag{configFlag},
				Action: validateCmd,
			},
			{
				Name:   "categories",
				Usage:  "Print the category space a configuration defines",
				Flags:  []cli.Flag{configFlag},
				Action: categoriesCmd,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func initLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func validateCmd(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	issues := config.Validate(cfg, lintLibrary(), lintRegistry())
	if len(issues) == 0 {
		fmt.Fprintln(c.App.Writer, "configuration valid")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(c.App.Writer, "  - %v\n", issue)
	}
	return &domain.ConfigError{Issues: issues}
}

func categoriesCmd(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	analysis, err := config.Build(cfg, lintLibrary(), lintRegistry())
	if err != nil {
		return err
	}
	for _, name := range analysis.Selection.CategoryNames() {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

// lintLibrary is the built-in cut catalog the binary links.
func lintLibrary() *selection.Library {
	return selection.NewLibrary()
}

// lintRegistry backs every built-in weight with a unit placeholder so
// configuration wiring can be checked without correction payloads.
func lintRegistry() *weights.Registry {
	unit := weights.CorrectionFunc(func(batch domain.EventBatch, _ domain.Metadata) (*weights.Values, error) {
		nominal := make([]float64, batch.Len())
		for i := range nominal {
			nominal[i] = 1
		}
		return &weights.Values{Nominal: nominal}, nil
	})

	corrections := make(map[string]weights.Correction)
	for _, name := range weights.BuiltinNames() {
		switch name {
		case weights.GenWeight, weights.Lumi, weights.XS:
			continue
		}
		corrections[name] = unit
	}

	reg, err := weights.NewBuiltinRegistry(weights.CatalogData{
		Lumi:        map[string]float64{},
		XSec:        map[string]float64{},
		Corrections: corrections,
	})
	if err != nil {
		panic(err) // static catalog, cannot fail
	}
	return reg
}
