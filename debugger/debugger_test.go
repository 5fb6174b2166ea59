package debugger

import (
	"testing"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

func TestDebugger_BreakpointStopsExecution(t *testing.T) {
	program := []uint32{0x00500093, 0x00a00113, 0x00f00193} // addi x1,x0,5; addi x2,x0,10; addi x3,x0,15
	p := vm.NewProcessor(vm.NewProgram(program), vm.NewMemory(16))
	dbg := NewDebugger(p)

	dbg.Breakpoints.AddBreakpoint(8, false, "")

	for p.CPU.PC != 8 {
		if stop, _ := dbg.ShouldBreak(); stop {
			t.Fatal("unexpected stop before breakpoint address")
		}
		if err := p.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	stop, reason := dbg.ShouldBreak()
	if !stop {
		t.Fatal("expected breakpoint to trigger")
	}
	if reason == "" {
		t.Error("expected a non-empty stop reason")
	}
}

func TestDebugger_ConditionalBreakpointGatesOnRegister(t *testing.T) {
	program := []uint32{0x00100093, 0x00100093, 0x00100093} // addi x1,x0,1 three times (pc never resets x1's accumulation, but each overwrites)
	p := vm.NewProcessor(vm.NewProgram(program), vm.NewMemory(16))
	dbg := NewDebugger(p)

	dbg.Breakpoints.AddBreakpoint(0, false, "x1==1")

	stop, _ := dbg.ShouldBreak()
	if stop {
		t.Fatal("x1 is 0 before the first step; condition x1==1 must not trigger yet")
	}

	if err := p.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	dbg.Breakpoints.AddBreakpoint(4, false, "x1==1")
	stop, _ = dbg.ShouldBreak()
	if !stop {
		t.Fatal("expected breakpoint at pc=4 with x1==1 to trigger")
	}
}

func TestDebugger_ExecuteCommand_SetAndPrint(t *testing.T) {
	p := vm.NewProcessor(vm.NewProgram([]uint32{0}), vm.NewMemory(16))
	dbg := NewDebugger(p)

	if err := dbg.ExecuteCommand("set a0 = 0x2a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := p.CPU.GetRegister(10); got != 0x2a {
		t.Errorf("a0 = %#x, want 0x2a", got)
	}

	if err := dbg.ExecuteCommand("print a0"); err != nil {
		t.Fatalf("print: %v", err)
	}
	if out := dbg.GetOutput(); out == "" {
		t.Error("expected print output")
	}
}

func TestDebugger_StepOverDetectsCall(t *testing.T) {
	// jal ra, 8
	p := vm.NewProcessor(vm.NewProgram([]uint32{0x008000ef}), vm.NewMemory(16))
	dbg := NewDebugger(p)

	dbg.SetStepOver()
	if dbg.StepMode != StepOver {
		t.Errorf("StepMode = %v, want StepOver for a jal into ra", dbg.StepMode)
	}
}

func TestEvalCondition(t *testing.T) {
	p := vm.NewProcessor(vm.NewProgram([]uint32{0}), vm.NewMemory(16))
	p.CPU.SetRegister(10, 42)

	cases := []struct {
		cond string
		want bool
	}{
		{"a0==42", true},
		{"a0!=42", false},
		{"a0<100", true},
		{"a0>100", false},
		{"a0<=42", true},
		{"a0>=43", false},
	}

	for _, c := range cases {
		got, err := evalCondition(c.cond, p)
		if err != nil {
			t.Fatalf("evalCondition(%q): %v", c.cond, err)
		}
		if got != c.want {
			t.Errorf("evalCondition(%q) = %v, want %v", c.cond, got, c.want)
		}
	}
}
