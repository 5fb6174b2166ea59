package vm

import "fmt"

// State is the execution status of a Processor, observed by the host
// between Step calls.
type State int

const (
	StateRunning State = iota
	StateHalted
	StateError
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	default:
		return "error"
	}
}

// ExecutionError reports a host-level bounds failure (out-of-range fetch or
// memory access). The core itself has no trap mechanism; a defensive host
// wrapper is permitted to halt rather than corrupt memory, which is what
// Processor.Step does by surfacing this error and moving to StateError.
type ExecutionError struct {
	Phase   string // "fetch", "load", or "store"
	Address uint32
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed at address 0x%08X: %v", e.Phase, e.Address, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Processor owns the architectural state (register file, PC, program,
// memory) and orchestrates one instruction's worth of decode/execute/commit
// per Step call. Decoder and ALU are pure functions it invokes; Processor is
// the only stateful component.
type Processor struct {
	CPU     *CPU
	Memory  *Memory
	Program *Program

	State     State
	LastError error

	MaxSteps uint64
	Steps    uint64

	// Optional diagnostics, nil unless explicitly attached.
	Trace *ExecutionTrace
	Stats *Statistics
}

// NewProcessor creates a processor with zeroed registers, PC=0, and a
// default step budget.
func NewProcessor(program *Program, memory *Memory) *Processor {
	return &Processor{
		CPU:      NewCPU(),
		Memory:   memory,
		Program:  program,
		State:    StateRunning,
		MaxSteps: DefaultMaxSteps,
	}
}

// Step advances the architecture by exactly one instruction. It never
// panics; out-of-range fetch or memory-stage addresses are reported as an
// *ExecutionError and move the processor to StateError rather than
// corrupting state.
func (p *Processor) Step() error {
	if p.State != StateRunning {
		return fmt.Errorf("processor is not running (state=%s)", p.State)
	}

	pc := p.CPU.PC

	word, err := p.Program.Fetch(pc)
	if err != nil {
		return p.fail("fetch", pc, err)
	}

	inst := Decode(word)

	op1 := p.CPU.GetRegister(inst.Rs1)
	var op2 uint32
	if inst.Family == FamilyAluR || inst.Family == FamilyBranch {
		op2 = p.CPU.GetRegister(inst.Rs2)
	} else {
		op2 = inst.Imm
	}

	alu := ExecuteALU(op1, op2, inst.Funct3, inst.Funct7, word)

	var loaded uint32
	if inst.Family == FamilyLoad || inst.Family == FamilyStore {
		ea := p.CPU.GetRegister(inst.Rs1) + inst.Imm
		if inst.Family == FamilyLoad {
			v, err := p.loadValue(ea, inst.Funct3)
			if err != nil {
				return p.fail("load", ea, err)
			}
			loaded = v
		} else {
			if err := p.storeValue(ea, inst.Funct3, p.CPU.GetRegister(inst.Rs2)); err != nil {
				return p.fail("store", ea, err)
			}
		}
	}

	writeback := p.writebackValue(inst, alu, loaded, pc)
	if inst.Rd != ZeroRegister && inst.Family != FamilyStore && inst.Family != FamilyBranch {
		p.CPU.SetRegister(inst.Rd, writeback)
	}

	p.updatePC(inst, alu, pc)

	p.Steps++
	if p.Trace != nil {
		p.Trace.Record(pc, word, inst.Family)
	}
	if p.Stats != nil {
		p.Stats.Record(inst.Family)
	}

	if p.MaxSteps > 0 && p.Steps >= p.MaxSteps {
		p.State = StateHalted
	}

	return nil
}

// writebackValue selects the value committed to rd, per the table in spec
// §4.3 step 6.
func (p *Processor) writebackValue(inst Instruction, alu ALUResult, loaded uint32, pc uint32) uint32 {
	switch inst.Family {
	case FamilyJal, FamilyJalr:
		return pc + InstructionSize
	case FamilyLui:
		return inst.Imm
	case FamilyAuipc:
		return pc + inst.Imm
	case FamilyLoad:
		return loaded
	case FamilyIllegal:
		return 0
	default:
		return alu.Out
	}
}

// updatePC implements the branch/jump target priority: they take priority
// over the default PC+4 advance, and JALR clears the low target bit.
func (p *Processor) updatePC(inst Instruction, alu ALUResult, pc uint32) {
	taken := inst.Family == FamilyBranch && BranchTaken(inst.Funct3, alu)

	switch {
	case taken || inst.Family == FamilyJal:
		p.CPU.PC = pc + inst.Imm
	case inst.Family == FamilyJalr:
		p.CPU.PC = alu.Add &^ 1
	default:
		p.CPU.PC = pc + InstructionSize
	}
}

func (p *Processor) fail(phase string, addr uint32, err error) error {
	execErr := &ExecutionError{Phase: phase, Address: addr, Err: err}
	p.State = StateError
	p.LastError = execErr
	return execErr
}

// Reset restores registers, PC, and step count to their initial values and
// clears any memory contents, returning the processor to StateRunning. Any
// attached Trace or Statistics are left untouched so a debugger can compare
// across runs.
func (p *Processor) Reset() {
	p.CPU.Reset()
	p.Memory.Reset()
	p.State = StateRunning
	p.LastError = nil
	p.Steps = 0
}

// Run steps the processor until it leaves StateRunning (halted, errored, or
// the step budget is exhausted) or ctx-free; the host owns the loop and may
// stop at any instruction boundary.
func (p *Processor) Run() error {
	for p.State == StateRunning {
		if err := p.Step(); err != nil {
			return err
		}
	}
	if p.State == StateError {
		return p.LastError
	}
	return nil
}

// RunFor steps the processor at most n times, stopping early if it leaves
// StateRunning. This is the host-level counted-loop a CLI or test harness
// uses to bound execution, rather than a core feature.
func (p *Processor) RunFor(n uint64) error {
	for i := uint64(0); i < n && p.State == StateRunning; i++ {
		if err := p.Step(); err != nil {
			return err
		}
	}
	return nil
}
