package vm

import "fmt"

// Program is the read-only text segment: an ordered sequence of 32-bit
// instruction words. Word at index i is the instruction at byte offset 4*i.
type Program struct {
	words []uint32
}

// NewProgram wraps an already-decoded instruction word slice.
func NewProgram(words []uint32) *Program {
	return &Program{words: words}
}

// Len returns the number of instruction words.
func (p *Program) Len() int {
	return len(p.words)
}

// Words returns the backing slice for diagnostic use.
func (p *Program) Words() []uint32 {
	return p.words
}

// Fetch returns the instruction word at the given byte offset (floor
// division by 4).
func (p *Program) Fetch(pc uint32) (uint32, error) {
	idx := int(pc / InstructionSize)
	if idx < 0 || idx >= len(p.words) {
		return 0, fmt.Errorf("program fetch out of range: pc 0x%08X", pc)
	}
	return p.words[idx], nil
}
