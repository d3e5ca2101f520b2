package emu

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// Memory is a flat, byte-addressed, little-endian memory backed by an Akita
// storage.
type Memory struct {
	storage *mem.Storage
	size    uint64
}

// NewMemory creates a memory of size bytes.
func NewMemory(size uint64) *Memory {
	return &Memory{
		storage: mem.NewStorage(size),
		size:    size,
	}
}

// Size returns the memory capacity in bytes.
func (m *Memory) Size() uint64 {
	if m == nil {
		return 0
	}
	return m.size
}

func (m *Memory) check(addr uint32, n int) error {
	if m == nil {
		return fmt.Errorf("%w: no memory attached", ErrMemoryFault)
	}
	if uint64(addr)+uint64(n) > m.size {
		return fmt.Errorf("%w: access of %d bytes at 0x%08x exceeds %d-byte memory",
			ErrMemoryFault, n, addr, m.size)
	}
	return nil
}

// Read reads n bytes starting at addr.
func (m *Memory) Read(addr uint32, n int) ([]byte, error) {
	if err := m.check(addr, n); err != nil {
		return nil, err
	}
	data, err := m.storage.Read(uint64(addr), uint64(n))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMemoryFault, err)
	}
	return data, nil
}

// Write stores data starting at addr.
func (m *Memory) Write(addr uint32, data []byte) error {
	if err := m.check(addr, len(data)); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := m.storage.Write(uint64(addr), data); err != nil {
		return fmt.Errorf("%w: %v", ErrMemoryFault, err)
	}
	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	data, err := m.Read(addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	data, err := m.Read(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	data, err := m.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) error {
	return m.Write(addr, []byte{value})
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) error {
	return m.Write(addr, binary.LittleEndian.AppendUint16(nil, value))
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	return m.Write(addr, binary.LittleEndian.AppendUint32(nil, value))
}

// LoadWords stores words contiguously starting at addr.
func (m *Memory) LoadWords(addr uint32, words []uint32) error {
	data := make([]byte, 0, 4*len(words))
	for _, w := range words {
		data = binary.LittleEndian.AppendUint32(data, w)
	}
	return m.Write(addr, data)
}
