package main

import (
	"errors"
	"fmt"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sarchlab/rv32sim/config"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
)

// Exit status of a run that stopped on a faulting instruction.
const faultExitCode = 2

var (
	RunConfigFlag = &cli.PathFlag{
		Name:      "config",
		Usage:     "path to a JSON run configuration",
		TakesFile: true,
	}
	RunMemorySizeFlag = &cli.Uint64Flag{
		Name:  "memory-size",
		Usage: "memory size in bytes, overrides the configuration",
	}
	RunLoadAddressFlag = &cli.UintFlag{
		Name:  "load-address",
		Usage: "byte address raw images are loaded at, overrides the configuration",
	}
	RunMaxStepsFlag = &cli.Uint64Flag{
		Name:  "max-steps",
		Usage: "stop after this many instructions, 0 for no limit",
	}
	RunVerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log every executed instruction",
	}
	RunStatsFlag = &cli.BoolFlag{
		Name:  "stats",
		Usage: "print the instruction mix after the register dump",
	}
	RunPProfCPU = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "enable pprof cpu profiling",
	}
)

// loadConfig builds the run configuration from --config and the override
// flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := ctx.Path(RunConfigFlag.Name); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if ctx.IsSet(RunMemorySizeFlag.Name) {
		cfg.MemorySize = ctx.Uint64(RunMemorySizeFlag.Name)
	}
	if ctx.IsSet(RunLoadAddressFlag.Name) {
		cfg.LoadAddress = uint32(ctx.Uint(RunLoadAddressFlag.Name))
	}
	if ctx.IsSet(RunMaxStepsFlag.Name) {
		cfg.MaxInstructions = ctx.Uint64(RunMaxStepsFlag.Name)
	}
	if ctx.Bool(RunVerboseFlag.Name) {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPU.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expected one program image, got %d arguments", ctx.Args().Len())
	}
	path := ctx.Args().First()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	l := newLogger(ctx.App.ErrWriter, level)

	prog, err := loader.Load(path, cfg.LoadAddress)
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	e := emu.NewEmulator(
		emu.WithMemory(emu.NewMemory(cfg.MemorySize)),
		emu.WithLogger(l),
		emu.WithMaxInstructions(cfg.MaxInstructions),
	)
	if err := prog.Install(e); err != nil {
		return fmt.Errorf("failed to install program: %w", err)
	}

	l.WithFields(logrus.Fields{
		"path":     path,
		"entry":    fmt.Sprintf("0x%08x", prog.Entry),
		"segments": len(prog.Segments),
	}).Info("loaded program")

	runErr := e.Run(ctx.Context)

	for _, r := range e.RegFile().Dump() {
		_, _ = fmt.Fprintln(ctx.App.Writer, r)
	}

	if ctx.Bool(RunStatsFlag.Name) {
		for _, line := range e.Stats().Lines() {
			_, _ = fmt.Fprintln(ctx.App.Writer, line)
		}
	}

	l.WithField("instructions", e.InstructionCount()).Info("stopped")

	var stepErr *emu.StepError
	if errors.As(runErr, &stepErr) {
		l.WithFields(logrus.Fields{
			"pc":   stepErr.PC,
			"word": fmt.Sprintf("0x%08x", stepErr.Word),
		}).Error(stepErr.Err)
		return cli.Exit(stepErr.Error(), faultExitCode)
	}
	return runErr
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run an RV32 program",
	Description: "Load a raw image or ELF32 file, run it until it halts or faults, and dump the registers",
	ArgsUsage:   "<program>",
	Action:      Run,
	Flags: []cli.Flag{
		RunConfigFlag,
		RunMemorySizeFlag,
		RunLoadAddressFlag,
		RunMaxStepsFlag,
		RunVerboseFlag,
		RunStatsFlag,
		RunPProfCPU,
	},
}
