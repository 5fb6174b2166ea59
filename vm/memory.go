package vm

import "fmt"

// Memory is the data segment: an ordered, writable sequence of 32-bit words
// addressed by byte address. The host sizes it once at construction; the
// core never grows or shrinks it.
type Memory struct {
	words []uint32
}

// NewMemory creates a zeroed memory image of the given word count.
func NewMemory(wordCount int) *Memory {
	return &Memory{words: make([]uint32, wordCount)}
}

// NewMemoryFromWords wraps an already-populated word slice (e.g. produced
// by a loader) without copying.
func NewMemoryFromWords(words []uint32) *Memory {
	return &Memory{words: words}
}

// Len returns the number of words in the image.
func (m *Memory) Len() int {
	return len(m.words)
}

// Words returns the backing slice for read-only diagnostic use (dumps,
// tests). Callers must not rely on aliasing semantics across a Reset.
func (m *Memory) Words() []uint32 {
	return m.words
}

// Reset zeroes every word without changing the image length.
func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// wordIndex converts a byte address to a word index and reports whether it
// is in range.
func (m *Memory) wordIndex(addr uint32) (int, bool) {
	idx := int(addr >> 2)
	return idx, idx >= 0 && idx < len(m.words)
}

// ReadWord reads the word containing the given byte address, ignoring the
// low 2 bits of addr (byte lane is resolved by the caller).
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	idx, ok := m.wordIndex(addr)
	if !ok {
		return 0, fmt.Errorf("memory read out of range: address 0x%08X", addr)
	}
	return m.words[idx], nil
}

// WriteWord overwrites the whole word containing addr.
func (m *Memory) WriteWord(addr uint32, value uint32) error {
	idx, ok := m.wordIndex(addr)
	if !ok {
		return fmt.Errorf("memory write out of range: address 0x%08X", addr)
	}
	m.words[idx] = value
	return nil
}

// ReadByte reads a single byte, extracted from its containing word.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	word, err := m.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	lane := addr & 0x3
	return SafeUint32ToUint8((word >> (8 * lane)) & Mask8Bit)
}

// ReadHalf reads a 16-bit halfword, extracted from its containing word.
// addr identifies the halfword via bit 1 (low half vs high half); the
// caller is responsible for address formation, the core does not trap on
// unaligned access.
func (m *Memory) ReadHalf(addr uint32) (uint16, error) {
	word, err := m.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	if (addr>>1)&1 == 1 {
		return SafeUint32ToUint16(word >> 16)
	}
	return SafeUint32ToUint16(word & Mask16Bit)
}
