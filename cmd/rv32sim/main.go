// Package main provides the rv32sim command line.
//
// Usage:
//
//	rv32sim run [--config cfg.json] [--max-steps N] [-v] program.bin
//	rv32sim scan program.elf
//	rv32sim decode 0x00308093 ...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "rv32sim"
	app.Usage = "RV32IMA instruction interpreter"
	app.Description = "Runs, scans and decodes RV32 programs given as raw little-endian images or ELF32 files"
	app.Commands = []*cli.Command{
		RunCommand,
		ScanCommand,
		DecodeCommand,
	}
	return app
}

// handleInterrupt cancels the run on the first signal and writes a notice
// to w.
func handleInterrupt(c <-chan os.Signal, cancel context.CancelFunc, w io.Writer) {
	<-c
	cancel()
	_, _ = fmt.Fprintln(w, "\r\nExiting...")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go handleInterrupt(c, cancel, os.Stderr)

	err := newApp().RunContext(ctx, os.Args)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintln(os.Stderr, "command interrupted")
			os.Exit(130)
		}
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
