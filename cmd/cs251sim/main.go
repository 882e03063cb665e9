// Package main provides the entry point for cs251sim, a stepping
// simulator for a small LEGv8-like instruction subset. Without flags it
// starts an interactive session; with -run it executes a snapshot in
// batch mode and writes the resulting snapshot back out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/OptimisticPeach/cs251simulator/emu"
	"github.com/OptimisticPeach/cs251simulator/loader"
)

var (
	runPath  = flag.String("run", "", "Snapshot to execute in batch mode")
	maxIters = flag.Int("max-iters", 1000, "Maximum ticks for batch mode")
	outPath  = flag.String("out", "", "Path to write the batch result snapshot")
	loadPath = flag.String("load", "", "Snapshot to preload for interactive mode")
	asmPath  = flag.String("asm", "", "Program text file to preload for interactive mode")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	ctx := app.Context()
	logger := createLogger(*debug)

	if *runPath != "" {
		if *outPath == "" {
			fmt.Fprintf(os.Stderr, "Usage: cs251sim -run snapshot.json -out result.json [-max-iters N]\n")
			flag.PrintDefaults()
			os.Exit(1)
		}
		if err := runBatch(ctx, logger); err != nil {
			logger.Error("Batch run failed", log.Err(err))
			os.Exit(1)
		}
		return
	}

	sim, err := setupInteractive(logger)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if err := runInteractive(ctx, logger, sim); err != nil {
		logger.Fatal(err.Error())
	}
}

func createLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}

// runBatch loads a snapshot, ticks it up to the iteration cap, and writes
// the resulting snapshot. On a tick failure the state before the failing
// step is what gets written; the failure and the iteration count reached
// are reported either way.
func runBatch(ctx context.Context, logger *log.Logger) error {
	sim, err := loader.Load(*runPath)
	if err != nil {
		return err
	}

	iters := 0
	var tickErr error
	for iters < *maxIters && ctx.Err() == nil {
		state, err := sim.Tick()
		if err != nil {
			tickErr = err
			break
		}
		if state == emu.ShouldStop {
			break
		}
		iters++
	}

	if tickErr != nil {
		failing := sim.Program[sim.Regs.PC]
		logger.Error("Execution failed",
			log.Err(tickErr),
			log.Int("iterations", iters),
			log.Uint64("pc", sim.Regs.PC),
			log.Stringer("instruction", failing),
		)
	} else {
		logger.Info("Execution finished", log.Int("iterations", iters))
	}

	if err := loader.Save(*outPath, sim); err != nil {
		return err
	}
	if tickErr != nil {
		return tickErr
	}
	return nil
}

// setupInteractive builds the starting state for an interactive session:
// an optional snapshot, an optional program text file, or an empty
// machine.
func setupInteractive(logger *log.Logger) (*emu.Simulator, error) {
	if *loadPath != "" {
		logger.Debug("Loading snapshot", log.String("path", *loadPath))
		return loader.Load(*loadPath)
	}

	sim := emu.NewSimulator()
	if *asmPath != "" {
		logger.Debug("Loading program", log.String("path", *asmPath))
		program, err := loader.LoadAsm(*asmPath)
		if err != nil {
			return nil, err
		}
		sim.SetProgram(program)
	}
	return sim, nil
}
