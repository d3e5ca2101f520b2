package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/sarchlab/rv32sim/insts"
)

func parseWord(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	w, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q: %w", s, err)
	}
	return uint32(w), nil
}

func Decode(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 {
		return fmt.Errorf("expected at least one instruction word")
	}

	decoder := insts.NewDecoder()
	for _, arg := range ctx.Args().Slice() {
		word, err := parseWord(arg)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(ctx.App.Writer, "0x%08x  %v\n", word, decoder.Decode(word))
	}
	return nil
}

var DecodeCommand = &cli.Command{
	Name:        "decode",
	Usage:       "Disassemble instruction words",
	Description: "Decode hexadecimal instruction words and print them in assembler syntax",
	ArgsUsage:   "<word>...",
	Action:      Decode,
}
