package vm

// Family identifies which of the RV32I encoding shapes an instruction word
// belongs to. It is a plain enumerated tag; Execute switches on it directly
// rather than dispatching polymorphically, since every variant shares the
// same trailing register/PC commit logic.
type Family int

const (
	FamilyAluR Family = iota
	FamilyAluI
	FamilyLoad
	FamilyStore
	FamilyBranch
	FamilyJal
	FamilyJalr
	FamilyLui
	FamilyAuipc
	FamilySystem
	FamilyIllegal
)

func (f Family) String() string {
	switch f {
	case FamilyAluR:
		return "ALU-R"
	case FamilyAluI:
		return "ALU-I"
	case FamilyLoad:
		return "LOAD"
	case FamilyStore:
		return "STORE"
	case FamilyBranch:
		return "BRANCH"
	case FamilyJal:
		return "JAL"
	case FamilyJalr:
		return "JALR"
	case FamilyLui:
		return "LUI"
	case FamilyAuipc:
		return "AUIPC"
	case FamilySystem:
		return "SYSTEM"
	default:
		return "ILLEGAL"
	}
}

// Instruction is the decoded record produced by Decode. It is derived fresh
// from the fetched word on every step and never persisted across steps.
type Instruction struct {
	Word    uint32
	Family  Family
	Imm     uint32 // sign-extended, reconstructed per the instruction's shape
	Rs1     int
	Rs2     int
	Rd      int
	Funct3  uint32
	Funct7  uint32
}

// Decode extracts the family, register indices, funct fields and
// sign-extended immediate out of a raw 32-bit instruction word.
func Decode(w uint32) Instruction {
	inst := Instruction{
		Word:   w,
		Rd:     int((w >> RdShift) & RdMask),
		Funct3: (w >> Funct3Shift) & Funct3Mask,
		Rs1:    int((w >> Rs1Shift) & Rs1Mask),
		Rs2:    int((w >> Rs2Shift) & Rs2Mask),
		Funct7: (w >> Funct7Shift) & Funct7Mask,
	}

	switch w & OpcodeMask {
	case OpAluR:
		inst.Family = FamilyAluR
	case OpAluI:
		inst.Family = FamilyAluI
		inst.Imm = immI(w)
	case OpLoad:
		inst.Family = FamilyLoad
		inst.Imm = immI(w)
	case OpStore:
		inst.Family = FamilyStore
		inst.Imm = immS(w)
	case OpBranch:
		inst.Family = FamilyBranch
		inst.Imm = immB(w)
	case OpJal:
		inst.Family = FamilyJal
		inst.Imm = immJ(w)
	case OpJalr:
		inst.Family = FamilyJalr
		inst.Imm = immI(w)
	case OpLui:
		inst.Family = FamilyLui
		inst.Imm = immU(w)
	case OpAuipc:
		inst.Family = FamilyAuipc
		inst.Imm = immU(w)
	case OpSystem:
		inst.Family = FamilySystem
		inst.Imm = immI(w)
	default:
		inst.Family = FamilyIllegal
	}

	return inst
}

// immI reconstructs an I-type immediate: sign-extend(w[31]), bits 10:0 = w[30:20].
func immI(w uint32) uint32 {
	imm := int32(w) >> 20 // arithmetic shift sign-extends from bit 31
	return uint32(imm)
}

// immS reconstructs an S-type immediate: sign-extend(w[31]); 11:5=w[31:25]; 4:0=w[11:7].
func immS(w uint32) uint32 {
	upper := (w >> 25) & 0x7F
	lower := (w >> 7) & 0x1F
	raw := (upper << 5) | lower
	return signExtend(raw, 12)
}

// immB reconstructs a B-type immediate: bit12=w31, bit11=w7, 10:5=w[30:25], 4:1=w[11:8], bit0=0.
func immB(w uint32) uint32 {
	bit12 := (w >> 31) & 1
	bit11 := (w >> 7) & 1
	bits10_5 := (w >> 25) & 0x3F
	bits4_1 := (w >> 8) & 0xF
	raw := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	return signExtend(raw, 13)
}

// immJ reconstructs a J-type immediate: bit20=w31, 19:12=w[19:12], bit11=w20, 10:1=w[30:21], bit0=0.
func immJ(w uint32) uint32 {
	bit20 := (w >> 31) & 1
	bits19_12 := (w >> 12) & 0xFF
	bit11 := (w >> 20) & 1
	bits10_1 := (w >> 21) & 0x3FF
	raw := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	return signExtend(raw, 21)
}

// immU reconstructs a U-type immediate: bits 31:12 = w[31:12], bits 11:0 = 0.
func immU(w uint32) uint32 {
	return w & 0xFFFFF000
}

// signExtend treats the low `bits` bits of raw as a two's-complement value
// and sign-extends it to a full 32-bit value.
func signExtend(raw uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(raw<<shift) >> shift)
}
