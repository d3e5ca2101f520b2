// Package main provides the entry point for rv32sim.
// rv32sim is a functional RV32IMA instruction interpreter built on Akita
// storage.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32IMA instruction interpreter")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: rv32sim <command> [options] <program>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run       Run a raw image or ELF32 program and dump the registers")
	fmt.Println("  scan      List instructions the interpreter would reject")
	fmt.Println("  decode    Disassemble instruction words")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
