package vm

import "strings"

// CPU holds the RV32I architectural register state: the 32-entry integer
// register file and the program counter. x0 is hardwired to zero at every
// read/write boundary rather than stored specially, so the invariant
// "registers[0] == 0" is enforced uniformly by SetRegister.
type CPU struct {
	// General purpose registers x0-x31. x0's slot is always kept at 0.
	X [RegisterCount]uint32

	// Program counter: byte offset of the next instruction to fetch.
	PC uint32
}

// ABI register names, used only for diagnostics (register dumps, trace
// output, debugger display). They have no architectural meaning.
var abiNames = [RegisterCount]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterName returns the ABI name of register index r, or "?" if out of range.
func RegisterName(r int) string {
	if r < 0 || r >= RegisterCount {
		return "?"
	}
	return abiNames[r]
}

// RegisterByName resolves an xN or ABI name ("x5", "a0", "sp", ...) to its
// register index. Lookup is case-insensitive.
func RegisterByName(name string) (int, bool) {
	if len(name) >= 2 && (name[0] == 'x' || name[0] == 'X') {
		n := 0
		for _, c := range name[1:] {
			if c < '0' || c > '9' {
				n = -1
				break
			}
			n = n*10 + int(c-'0')
		}
		if n >= 0 && n < RegisterCount {
			return n, true
		}
	}
	for i, abi := range abiNames {
		if strings.EqualFold(abi, name) {
			return i, true
		}
	}
	return 0, false
}

// NewCPU creates a CPU with all registers and the PC zeroed.
func NewCPU() *CPU {
	return &CPU{}
}

// Reset zeroes every register and the PC.
func (c *CPU) Reset() {
	for i := range c.X {
		c.X[i] = 0
	}
	c.PC = 0
}

// GetRegister returns the value of register r (0-31). x0 always reads 0.
func (c *CPU) GetRegister(r int) uint32 {
	if r < 0 || r >= RegisterCount {
		return 0
	}
	return c.X[r]
}

// SetRegister writes value into register r. Writes to x0 are discarded.
func (c *CPU) SetRegister(r int, value uint32) {
	if r <= ZeroRegister || r >= RegisterCount {
		return
	}
	c.X[r] = value
}

// IncrementPC advances the program counter by one instruction word.
func (c *CPU) IncrementPC() {
	c.PC += InstructionSize
}
