package loader

import (
	"debug/elf"
	"fmt"
	"io"
	"math"
	"os"
)

// LoadELF parses a 32-bit RISC-V ELF executable.
func LoadELF(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseELF(f)
}

func parseELF(r io.ReaderAt) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("%w: not a 32-bit ELF file", ErrUnsupportedELF)
	}
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%w: not a RISC-V ELF file (machine type: %v)",
			ErrUnsupportedELF, f.Machine)
	}
	if f.Entry%4 != 0 {
		return nil, fmt.Errorf("%w: entry point 0x%x is not word aligned",
			ErrUnsupportedELF, f.Entry)
	}

	prog := &Program{
		Entry: uint32(f.Entry),
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		if phdr.Vaddr+phdr.Memsz > math.MaxUint32 {
			return nil, fmt.Errorf("%w: segment at 0x%x overflows the address space",
				ErrUnsupportedELF, phdr.Vaddr)
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		seg := Segment{
			Addr:    uint32(phdr.Vaddr),
			Data:    data,
			MemSize: uint32(max(phdr.Memsz, phdr.Filesz)),
			Flags:   flags,
		}

		if flags&SegmentFlagExecute != 0 && seg.End() > prog.TextEnd {
			prog.TextEnd = seg.End()
		}

		prog.Segments = append(prog.Segments, seg)
	}

	return prog, nil
}
