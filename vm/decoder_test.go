package vm_test

import (
	"testing"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

func TestDecode_AluR_Sub(t *testing.T) {
	// sub x5, x1, x2
	inst := vm.Decode(0x402082b3)

	if inst.Family != vm.FamilyAluR {
		t.Fatalf("family = %v, want AluR", inst.Family)
	}
	if inst.Rs1 != 1 || inst.Rs2 != 2 || inst.Rd != 5 {
		t.Errorf("rs1=%d rs2=%d rd=%d, want 1 2 5", inst.Rs1, inst.Rs2, inst.Rd)
	}
	if inst.Funct3 != 0x0 || inst.Funct7 != 0x20 {
		t.Errorf("funct3=%#x funct7=%#x, want 0x0 0x20", inst.Funct3, inst.Funct7)
	}
}

func TestDecode_ImmI(t *testing.T) {
	// addi x5, x2, 125
	inst := vm.Decode(0x07d10293)
	if inst.Family != vm.FamilyAluI {
		t.Fatalf("family = %v, want AluI", inst.Family)
	}
	if int32(inst.Imm) != 125 {
		t.Errorf("imm = %d, want 125", int32(inst.Imm))
	}
}

func TestDecode_ImmI_NegativeSignExtends(t *testing.T) {
	// addi x1, x1, -4  (imm = 0xFFC -> -4)
	word := uint32(0xFFC08093)
	inst := vm.Decode(word)
	if int32(inst.Imm) != -4 {
		t.Errorf("imm = %d, want -4", int32(inst.Imm))
	}
}

func TestDecode_ImmS(t *testing.T) {
	// sw x5, 88(x2)
	inst := vm.Decode(0x04512c23)
	if inst.Family != vm.FamilyStore {
		t.Fatalf("family = %v, want Store", inst.Family)
	}
	if int32(inst.Imm) != 88 {
		t.Errorf("imm = %d, want 88", int32(inst.Imm))
	}
}

func TestDecode_ImmB(t *testing.T) {
	// beq x5, x2, 74
	inst := vm.Decode(0x04228563)
	if inst.Family != vm.FamilyBranch {
		t.Fatalf("family = %v, want Branch", inst.Family)
	}
	if int32(inst.Imm) != 74 {
		t.Errorf("imm = %d, want 74", int32(inst.Imm))
	}
	if inst.Rs1 != 5 || inst.Rs2 != 2 || inst.Funct3 != 0x0 {
		t.Errorf("rs1=%d rs2=%d funct3=%#x, want 5 2 0x0", inst.Rs1, inst.Rs2, inst.Funct3)
	}
}

func TestDecode_ImmJ(t *testing.T) {
	// jal x8, 44
	inst := vm.Decode(0x02c0046f)
	if inst.Family != vm.FamilyJal {
		t.Fatalf("family = %v, want Jal", inst.Family)
	}
	if int32(inst.Imm) != 44 {
		t.Errorf("imm = %d, want 44", int32(inst.Imm))
	}
	if inst.Rd != 8 {
		t.Errorf("rd = %d, want 8", inst.Rd)
	}
}

func TestDecode_ImmU_Lui(t *testing.T) {
	// lui x8, 1339
	inst := vm.Decode(0x0053b437)
	if inst.Family != vm.FamilyLui {
		t.Fatalf("family = %v, want Lui", inst.Family)
	}
	want := uint32(0b00000000_01010011_10110000_00000000)
	if inst.Imm != want {
		t.Errorf("imm = %#x, want %#x", inst.Imm, want)
	}
}

func TestDecode_IllegalOpcode(t *testing.T) {
	// opcode bits all clear is not a valid RV32I major opcode.
	inst := vm.Decode(0x00000000)
	if inst.Family != vm.FamilyIllegal {
		t.Fatalf("family = %v, want Illegal", inst.Family)
	}
}

// TestDecode_RoundTrip_RType re-encodes the fields Decode produces for a
// canonical R-type word and checks the non-immediate fields survive exactly.
func TestDecode_RoundTrip_RType(t *testing.T) {
	word := uint32(0x002081b3) // add x3, x1, x2
	inst := vm.Decode(word)

	reencoded := uint32(inst.Funct7)<<25 | uint32(inst.Rs2)<<20 | uint32(inst.Rs1)<<15 |
		inst.Funct3<<12 | uint32(inst.Rd)<<7 | vm.OpAluR
	if reencoded != word {
		t.Errorf("re-encoded = %#x, want %#x", reencoded, word)
	}
}
