package vm_test

import (
	"testing"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

func TestMemory_WriteReadWord(t *testing.T) {
	m := vm.NewMemory(16)
	if err := m.WriteWord(8, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	got, err := m.ReadWord(8)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x, want 0xDEADBEEF", got)
	}
}

func TestMemory_OutOfRange(t *testing.T) {
	m := vm.NewMemory(4)
	if _, err := m.ReadWord(1000); err == nil {
		t.Fatal("expected out-of-range read error")
	}
	if err := m.WriteWord(1000, 1); err == nil {
		t.Fatal("expected out-of-range write error")
	}
}

func TestMemory_ByteLanes(t *testing.T) {
	m := vm.NewMemory(1)
	m.WriteWord(0, 0x04030201)
	for lane, want := range []byte{1, 2, 3, 4} {
		got, err := m.ReadByte(uint32(lane))
		if err != nil {
			t.Fatalf("ReadByte(%d): %v", lane, err)
		}
		if got != want {
			t.Errorf("lane %d = %#x, want %#x", lane, got, want)
		}
	}
}

func TestMemory_HalfLanes(t *testing.T) {
	m := vm.NewMemory(1)
	m.WriteWord(0, 0xBEEFCAFE)
	lo, _ := m.ReadHalf(0)
	hi, _ := m.ReadHalf(2)
	if lo != 0xCAFE {
		t.Errorf("low half = %#x, want 0xCAFE", lo)
	}
	if hi != 0xBEEF {
		t.Errorf("high half = %#x, want 0xBEEF", hi)
	}
}

func TestMemory_Reset_PreservesLength(t *testing.T) {
	m := vm.NewMemory(8)
	m.WriteWord(0, 1)
	m.Reset()
	if m.Len() != 8 {
		t.Fatalf("length changed after reset: %d", m.Len())
	}
	v, _ := m.ReadWord(0)
	if v != 0 {
		t.Errorf("word not cleared by reset: %#x", v)
	}
}

func TestProgram_Fetch_FloorDivision(t *testing.T) {
	p := vm.NewProgram([]uint32{0x11, 0x22, 0x33})
	w, err := p.Fetch(4)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if w != 0x22 {
		t.Errorf("word at pc=4 = %#x, want 0x22", w)
	}
}

func TestProgram_Fetch_OutOfRange(t *testing.T) {
	p := vm.NewProgram([]uint32{0x11})
	if _, err := p.Fetch(100); err == nil {
		t.Fatal("expected out-of-range fetch error")
	}
}
