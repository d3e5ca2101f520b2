// Package loader loads RV32 program images, either raw little-endian words
// or 32-bit RISC-V ELF executables.
package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/rv32sim/emu"
)

var (
	// ErrTruncatedImage is returned for a raw image whose length is not a
	// multiple of 4. It is the emulator's sentinel for the same condition.
	ErrTruncatedImage = emu.ErrTruncatedImage

	// ErrUnsupportedELF is returned for ELF files that are not 32-bit
	// RISC-V executables.
	ErrUnsupportedELF = errors.New("unsupported ELF file")
)

// elfMagic starts every ELF file.
var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment is a contiguous block of memory to initialize before running.
type Segment struct {
	// Addr is the byte address the segment is loaded at.
	Addr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory. Bytes past len(Data) are zeroed.
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// End returns the byte address just past the segment.
func (s Segment) End() uint32 {
	return s.Addr + s.MemSize
}

// Program is a loaded image ready to be installed into an emulator.
type Program struct {
	// Entry is the byte address execution starts at.
	Entry uint32
	// Segments contains every loadable segment.
	Segments []Segment
	// TextEnd is the byte address just past the last executable segment.
	// Execution halts when PC reaches it.
	TextEnd uint32
}

// Load reads path as an ELF file if it starts with the ELF magic, and as a
// raw image loaded at loadAddr otherwise.
func Load(path string, loadAddr uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	if bytes.HasPrefix(data, elfMagic) {
		return parseELF(bytes.NewReader(data))
	}

	return NewRawProgram(data, loadAddr)
}

// LoadRaw reads a raw little-endian image from path and places its first
// word at loadAddr.
func LoadRaw(path string, loadAddr uint32) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	return NewRawProgram(data, loadAddr)
}

// NewRawProgram wraps a raw little-endian image as a single executable
// segment at loadAddr.
func NewRawProgram(image []byte, loadAddr uint32) (*Program, error) {
	if loadAddr%4 != 0 {
		return nil, fmt.Errorf("load address 0x%08x is not word aligned", loadAddr)
	}
	if len(image)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedImage, len(image))
	}
	// End and TextEnd must stay representable as byte addresses.
	if uint64(loadAddr)+uint64(len(image)) >= 1<<32 {
		return nil, fmt.Errorf("image of %d bytes at 0x%08x overflows the address space",
			len(image), loadAddr)
	}

	seg := Segment{
		Addr:    loadAddr,
		Data:    image,
		MemSize: uint32(len(image)),
		Flags:   SegmentFlagRead | SegmentFlagExecute,
	}

	return &Program{
		Entry:    loadAddr,
		Segments: []Segment{seg},
		TextEnd:  seg.End(),
	}, nil
}

// FromWords builds a raw program from instruction words.
func FromWords(words []uint32, loadAddr uint32) (*Program, error) {
	image := make([]byte, 0, 4*len(words))
	for _, w := range words {
		image = binary.LittleEndian.AppendUint32(image, w)
	}
	return NewRawProgram(image, loadAddr)
}

// TextWords returns the words of the segment holding the entry point, and
// the word index of its first word.
func (p *Program) TextWords() ([]uint32, uint32) {
	for _, seg := range p.Segments {
		if p.Entry < seg.Addr || p.Entry >= seg.Addr+uint32(len(seg.Data)) {
			continue
		}

		words := make([]uint32, 0, len(seg.Data)/4)
		for off := 0; off+4 <= len(seg.Data); off += 4 {
			words = append(words, binary.LittleEndian.Uint32(seg.Data[off:]))
		}
		return words, seg.Addr / 4
	}
	return nil, 0
}

// Install copies every segment into the emulator's memory, points PC at the
// entry and makes execution halt at TextEnd.
func (p *Program) Install(e *emu.Emulator) error {
	memory := e.Memory()

	for _, seg := range p.Segments {
		if err := memory.Write(seg.Addr, seg.Data); err != nil {
			return fmt.Errorf("failed to load segment at 0x%08x: %w", seg.Addr, err)
		}

		if bss := int(seg.MemSize) - len(seg.Data); bss > 0 {
			bssAddr := seg.Addr + uint32(len(seg.Data))
			if err := memory.Write(bssAddr, make([]byte, bss)); err != nil {
				return fmt.Errorf("failed to zero segment at 0x%08x: %w", bssAddr, err)
			}
		}
	}

	e.RegFile().PC = p.Entry / 4
	e.SetFetchLimit(p.TextEnd / 4)

	return nil
}
