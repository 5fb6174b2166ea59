// Package debugger implements a breakpoint/watchpoint-driven interactive
// debugger around a vm.Processor: a line command interface, a TUI built on
// tview/tcell, and the command history and condition evaluation they share.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

// Debugger represents the debugger state and functionality.
type Debugger struct {
	VM *vm.Processor

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	// Execution control
	Running           bool
	StepMode          StepMode
	StepOverCallDepth int
	StepOverPC        uint32

	// Symbol table, for label resolution when loading linked objects.
	Symbols map[string]uint32

	LastCommand string

	Output strings.Builder
}

// StepMode represents different stepping modes.
type StepMode int

const (
	StepNone   StepMode = iota // Not stepping
	StepSingle                 // Step one instruction
	StepOver                   // Step over a JAL/JALR call
	StepOut                    // Step out of the current call
)

// NewDebugger creates a new debugger instance around an existing processor.
func NewDebugger(p *vm.Processor) *Debugger {
	return &Debugger{
		VM:          p,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		StepMode:    StepNone,
		Symbols:     make(map[string]uint32),
	}
}

// LoadSymbols loads the symbol table for label resolution.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = symbols
}

// ResolveAddress resolves a label to an address, or parses a numeric address.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, exists := d.Symbols[addrStr]; exists {
		return addr, nil
	}

	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		v, err := strconv.ParseUint(addrStr[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
		return uint32(v), nil
	}

	v, err := strconv.ParseUint(addrStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return uint32(v), nil
}

// ExecuteCommand processes and executes a debugger command.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	return d.handleCommand(cmd, args)
}

// handleCommand dispatches commands to their handlers.
func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "next", "n":
		return d.cmdNext(args)
	case "finish", "fin":
		return d.cmdFinish(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "watch", "w":
		return d.cmdWatch(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "backtrace", "bt", "where":
		return d.cmdBacktrace(args)

	case "set":
		return d.cmdSet(args)
	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak checks if execution should pause at the current PC.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.VM.CPU.PC

	switch d.StepMode {
	case StepSingle:
		d.StepMode = StepNone
		return true, "single step"

	case StepOver, StepOut:
		if pc == d.StepOverPC {
			d.StepMode = StepNone
			return true, "step complete"
		}
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil {
		if !bp.Enabled {
			return false, ""
		}

		if bp.Condition != "" {
			result, err := evalCondition(bp.Condition, d.VM)
			if err != nil {
				return true, fmt.Sprintf("breakpoint %d (condition error: %v)", bp.ID, err)
			}
			if !result {
				return false, ""
			}
		}

		bp.HitCount++
		if bp.Temporary {
			_ = d.Breakpoints.DeleteBreakpoint(bp.ID)
		}

		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.VM); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}

// SetStepOver arranges to stop at the instruction after the current one,
// treating a JAL/JALR whose link register is ra (x1) as a call to skip over.
func (d *Debugger) SetStepOver() {
	word, err := d.VM.Program.Fetch(d.VM.CPU.PC)
	if err != nil {
		d.StepMode = StepSingle
		d.Running = true
		return
	}

	inst := vm.Decode(word)
	isCall := (inst.Family == vm.FamilyJal || inst.Family == vm.FamilyJalr) && inst.Rd == 1

	d.StepOverPC = d.VM.CPU.PC + vm.InstructionSize
	if isCall {
		d.StepMode = StepOver
	} else {
		d.StepMode = StepSingle
	}
	d.Running = true
}

// SetStepOut configures the debugger to run until it returns to the
// instruction after the current PC.
func (d *Debugger) SetStepOut() {
	d.StepOverPC = d.VM.CPU.PC + vm.InstructionSize
	d.StepMode = StepOut
	d.Running = true
}
