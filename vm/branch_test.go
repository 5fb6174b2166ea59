package vm_test

import (
	"testing"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

func TestBranchTaken_AllSixConditions(t *testing.T) {
	cases := []struct {
		name    string
		funct3  uint32
		flags   vm.ALUResult
		wantHit bool
	}{
		{"beq taken", 0x0, vm.ALUResult{Eq: true}, true},
		{"beq not taken", 0x0, vm.ALUResult{Eq: false}, false},
		{"bne taken", 0x1, vm.ALUResult{Eq: false}, true},
		{"bne not taken", 0x1, vm.ALUResult{Eq: true}, false},
		{"blt taken", 0x4, vm.ALUResult{Lt: true}, true},
		{"bge taken (not lt)", 0x5, vm.ALUResult{Lt: false}, true},
		{"bltu taken", 0x6, vm.ALUResult{Ltu: true}, true},
		{"bgeu taken (not ltu)", 0x7, vm.ALUResult{Ltu: false}, true},
		{"undefined funct3 never taken", 0x2, vm.ALUResult{Eq: true, Lt: true, Ltu: true}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := vm.BranchTaken(c.funct3, c.flags); got != c.wantHit {
				t.Errorf("BranchTaken(%#x, %+v) = %v, want %v", c.funct3, c.flags, got, c.wantHit)
			}
		})
	}
}
