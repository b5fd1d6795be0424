// meshslice cuts triangle meshes with planes and exports the cross sections.
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/meshslice/internal/config"
	"github.com/chazu/meshslice/internal/logger"
	"github.com/chazu/meshslice/pkg/slicer"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Debug("config loaded",
		zap.Int("workers", cfg.Slice.Workers),
		zap.String("tie_break", cfg.Slice.TieBreak),
		zap.String("format", cfg.Export.Format),
	)

	app, err := NewApp(cfg, logger.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "slice":
		err = cmdSlice(app, rest)
	case "script", "run":
		err = cmdScript(app, rest)
	case "info":
		err = cmdInfo(app, rest)
	case "config":
		err = cmdConfig(rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshslice - planar cross sections of triangle meshes

Usage:
  meshslice [flags] <command> [arguments]

Commands:
  slice <model>... nx ny nz d   Cut with the plane n·p = d
  script <job.lisp>             Run a job script and slice its model
  info <model>...               Show triangle count and bounds
  config init [path]            Write a default config file

A model is an STL file or "cube". Several models are joined into one.

Flags:
  -config <path>    Config file (default ./meshslice.yaml or user config dir)
  -out <path>       Output file (default stdout; required for dxf)
  -format <name>    text, svg or dxf
  -workers <n>      Slice worker goroutines (0 = one per CPU)
  -tie <policy>     On-plane vertices count as below or above
  -normalize        Center the model and scale it to a unit diagonal
  -remap <name>     STL axis convention: none or yzx
  -cells <n>        Marching cubes resolution for scripted models
  -log-file <path>  Also log to a rotated JSON file
  -debug            Enable debug logging

Examples:
  meshslice slice cube 0 1 0 0
  meshslice slice base.stl lid.stl 0 1 0 4.5
  meshslice -format svg -out part.svg slice part.stl 0 0 1 12.5
  meshslice -format dxf -out layers.dxf script examples/bracket.lisp`)
}

func cmdSlice(app *App, args []string) error {
	if len(args) < 5 {
		return fmt.Errorf("usage: meshslice slice <model>... nx ny nz d")
	}
	split := len(args) - 4
	plane, err := parsePlaneArgs(args[split:])
	if err != nil {
		return err
	}
	m, err := app.LoadModels(args[:split])
	if err != nil {
		return err
	}
	layers, err := app.Slice(m, []slicer.Plane{plane})
	if err != nil {
		return err
	}
	return app.Write(config.OutputPath(), os.Stdout, layers)
}

func cmdScript(app *App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: meshslice script <job.lisp>")
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	result, err := app.RunScript(string(source))
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], e)
		}
		return fmt.Errorf("%d script error(s)", len(result.Errors))
	}
	return app.Write(config.OutputPath(), os.Stdout, result.Layers)
}

func cmdInfo(app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: meshslice info <model>...")
	}
	m, err := app.LoadModels(args)
	if err != nil {
		return err
	}
	info := app.Info(m)
	fmt.Printf("Model:     %s\n", strings.Join(args, " + "))
	fmt.Printf("Triangles: %d\n", info.Triangles)
	fmt.Printf("Min:       %g %g %g\n", info.Min.X, info.Min.Y, info.Min.Z)
	fmt.Printf("Max:       %g %g %g\n", info.Max.X, info.Max.Y, info.Max.Z)
	fmt.Printf("Center:    %g %g %g\n", info.Center.X, info.Center.Y, info.Center.Z)
	fmt.Printf("Diagonal:  %g\n", info.Extent)
	return nil
}

func cmdConfig(args []string) error {
	if len(args) < 1 || args[0] != "init" || len(args) > 2 {
		return fmt.Errorf("usage: meshslice config init [path]")
	}
	path := ""
	if len(args) == 2 {
		path = args[1]
	}
	written, err := initConfig(path)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", written)
	return nil
}
