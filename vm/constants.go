package vm

// ============================================================================
// RV32I Instruction Encoding Constants
// ============================================================================
// These values are defined by the RISC-V base integer ISA and should not be
// modified; decoder.go and alu.go both depend on them.

const (
	InstructionSize = 4 // bytes per instruction word

	// Register file
	RegisterCount = 32 // x0-x31
	ZeroRegister  = 0  // x0 is hardwired to zero

	// Opcode field (bits 6-0)
	OpcodeMask = 0x7F

	// Common field positions
	RdShift     = 7
	RdMask      = 0x1F
	Funct3Shift = 12
	Funct3Mask  = 0x7
	Rs1Shift    = 15
	Rs1Mask     = 0x1F
	Rs2Shift    = 20
	Rs2Mask     = 0x1F
	Funct7Shift = 25
	Funct7Mask  = 0x7F

	// funct7 values that distinguish SUB/SRA from ADD/SRL
	Funct7Alt = 0x20

	// Bit used to choose register- vs immediate-sourced shift amount
	// (bit 5 of the opcode is set for the ALU-register instruction family)
	ShamtSelectBit = 5

	// Opcodes (low 7 bits of the instruction word)
	OpAluR   = 0b0110011
	OpAluI   = 0b0010011
	OpLoad   = 0b0000011
	OpStore  = 0b0100011
	OpBranch = 0b1100011
	OpJal    = 0b1101111
	OpJalr   = 0b1100111
	OpLui    = 0b0110111
	OpAuipc  = 0b0010111
	OpSystem = 0b1110011

	// Bit masks
	Mask1Bit  = 0x1
	Mask2Bit  = 0x3
	Mask5Bit  = 0x1F
	Mask8Bit  = 0xFF
	Mask16Bit = 0xFFFF
	Mask32Bit = 0xFFFFFFFF

	SignBitPos  = 31
	SignBitMask = 0x80000000

	BitsInWord = 32
)

// ============================================================================
// Memory Layout Constants
// ============================================================================
// The example linked image (testdata/fib_fact.robj, see loader.LoadObject)
// uses this default map. The Processor itself never references these
// constants directly — they exist purely so the CLI, loader, and tests
// agree on one convention.

const (
	DefaultMemoryWords = 3 * 1024 // total words in the example memory image

	DefaultTextStartWord = 0    // instruction words occupy the low half
	DefaultDataStartWord = 2048 // initialized data starts here

	DefaultStackTop = DefaultMemoryWords * 4 // byte address; stack grows down from here
)

// ============================================================================
// Processor Execution Limits
// ============================================================================

const (
	DefaultMaxSteps    = 1_000_000 // default host step budget
	DefaultLogCapacity = 1024      // initial capacity for the instruction trace ring
)
