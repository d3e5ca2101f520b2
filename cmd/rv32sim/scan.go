package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
)

var ScanLoadAddressFlag = &cli.UintFlag{
	Name:  "load-address",
	Usage: "byte address raw images are loaded at",
}

func Scan(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("expected one program image, got %d arguments", ctx.Args().Len())
	}

	prog, err := loader.Load(ctx.Args().First(), uint32(ctx.Uint(ScanLoadAddressFlag.Name)))
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	words, base := prog.TextWords()
	findings := emu.Scan(words)
	for _, f := range findings {
		_, _ = fmt.Fprintf(ctx.App.Writer, "0x%08x: 0x%08x %v\n", (base+f.Index)*4, f.Inst.Raw, f.Err)
	}

	if len(findings) > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d words rejected", len(findings), len(words)), 1)
	}
	_, _ = fmt.Fprintf(ctx.App.Writer, "%d words ok\n", len(words))
	return nil
}

var ScanCommand = &cli.Command{
	Name:        "scan",
	Usage:       "Report instructions the interpreter would reject",
	Description: "Decode every word of the program text without executing it and list the words that are unimplemented or illegal",
	ArgsUsage:   "<program>",
	Action:      Scan,
	Flags: []cli.Flag{
		ScanLoadAddressFlag,
	},
}
