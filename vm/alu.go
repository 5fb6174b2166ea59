package vm

// ALUResult carries the primary result and flag side-effects of one ALU
// evaluation. eq/lt/ltu are recomputed on every call regardless of funct3 —
// branch instructions consume them independently of whichever primary
// result funct3 happened to select.
type ALUResult struct {
	Out uint32
	Eq  bool
	Lt  bool
	Ltu bool

	// Add is the raw unsigned a+b (mod 2^32), used unmodified by JALR
	// target formation and load/store effective-address calculation so
	// callers never need to recompute it.
	Add uint32
}

// ExecuteALU evaluates the RV32I ALU operation selected by funct3/funct7 on
// operands a and b. w is the raw instruction word, needed only to decide
// between a register-sourced and an immediate-sourced shift amount. The ALU
// is total: every input combination produces a defined result and flags.
func ExecuteALU(a, b uint32, funct3, funct7 uint32, w uint32) ALUResult {
	add := a + b
	sub := a - b

	signedA := int32(a)
	signedB := int32(b)

	var r ALUResult
	r.Add = add
	r.Eq = a == b
	r.Lt = signedA < signedB
	r.Ltu = a < b

	shamt := shiftAmount(b, w)

	switch funct3 {
	case 0x0: // ADD / SUB
		if funct7 == Funct7Alt {
			r.Out = sub
		} else {
			r.Out = add
		}
	case 0x1: // SLL
		r.Out = a << shamt
	case 0x2: // SLT
		r.Out = boolToWord(r.Lt)
	case 0x3: // SLTU
		r.Out = boolToWord(r.Ltu)
	case 0x4: // XOR
		r.Out = a ^ b
	case 0x5: // SRL / SRA
		if funct7 == Funct7Alt {
			r.Out = uint32(signedA >> shamt)
		} else {
			r.Out = a >> shamt
		}
	case 0x6: // OR
		r.Out = a | b
	case 0x7: // AND
		r.Out = a & b
	}

	return r
}

// shiftAmount selects the shift count: the low 5 bits of b for the
// register-sourced ALU family (opcode bit 5 set), otherwise the low 5 bits
// of the immediate shift field encoded at w[24:20].
func shiftAmount(b, w uint32) uint32 {
	if (w>>ShamtSelectBit)&Mask1Bit == 1 {
		return b & Mask5Bit
	}
	return (w >> Rs2Shift) & Mask5Bit
}

func boolToWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
