package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

// Command handler implementations.

func (d *Debugger) cmdRun(args []string) error {
	d.VM.Reset()
	d.Running = true
	d.StepMode = StepNone

	d.Println("Starting program execution...")
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	if d.VM.State != vm.StateRunning {
		return fmt.Errorf("program is not running (state=%s)", d.VM.State)
	}

	d.Running = true
	d.StepMode = StepNone

	d.Println("Continuing...")
	return nil
}

func (d *Debugger) cmdStep(args []string) error {
	d.StepMode = StepSingle
	d.Running = true
	return nil
}

func (d *Debugger) cmdNext(args []string) error {
	d.SetStepOver()
	return nil
}

func (d *Debugger) cmdFinish(args []string) error {
	d.SetStepOut()
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label> [if <condition>]")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	var condition string
	if len(args) > 1 && strings.ToLower(args[1]) == "if" {
		condition = strings.Join(args[2:], " ")
	}

	bp := d.Breakpoints.AddBreakpoint(address, false, condition)

	if condition != "" {
		d.Printf("Breakpoint %d at 0x%08X (condition: %s)\n", bp.ID, address, condition)
	} else {
		d.Printf("Breakpoint %d at 0x%08X\n", bp.ID, address)
	}

	return nil
}

func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tbreak <address|label>")
	}

	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}

	bp := d.Breakpoints.AddBreakpoint(address, true, "")
	d.Printf("Temporary breakpoint %d at 0x%08X\n", bp.ID, address)

	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d enabled\n", id)
	return nil
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <breakpoint-id>")
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}

	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}

	d.Printf("Breakpoint %d disabled\n", id)
	return nil
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <register|[address]>")
	}

	expression := strings.Join(args, " ")

	isRegister, register, address, err := d.parseWatchExpression(expression)
	if err != nil {
		return err
	}

	wp := d.Watchpoints.AddWatchpoint(WatchWrite, expression, address, isRegister, register)

	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.VM); err != nil {
		d.Watchpoints.DeleteWatchpoint(wp.ID)
		return err
	}

	d.Printf("Watchpoint %d: %s\n", wp.ID, expression)
	return nil
}

// parseWatchExpression parses a watch expression (register or memory address).
func (d *Debugger) parseWatchExpression(expr string) (isRegister bool, register int, address uint32, err error) {
	expr = strings.TrimSpace(expr)

	if reg, ok := vm.RegisterByName(expr); ok {
		return true, reg, 0, nil
	}

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addrStr := strings.TrimSuffix(strings.TrimPrefix(expr, "["), "]")
		addr, err := d.ResolveAddress(addrStr)
		if err != nil {
			return false, 0, 0, err
		}
		return false, 0, addr, nil
	}

	return false, 0, 0, fmt.Errorf("invalid watch expression: %s (expected a register name or [address])", expr)
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <register|literal>")
	}

	value, err := evalValue(strings.Join(args, " "), d.VM)
	if err != nil {
		return err
	}

	d.Printf("0x%08X (%d)\n", value, vm.AsInt32(value))
	return nil
}

func (d *Debugger) cmdExamine(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: x[/n] <address>")
	}

	count := 1
	addrArg := args[0]

	if strings.HasPrefix(args[0], "/") {
		if len(args) < 2 {
			return fmt.Errorf("missing address")
		}
		if n, err := strconv.Atoi(args[0][1:]); err == nil {
			count = n
		}
		addrArg = args[1]
	}

	address, err := d.ResolveAddress(addrArg)
	if err != nil {
		return err
	}

	d.Printf("0x%08X:", address)
	for i := 0; i < count; i++ {
		value, err := d.VM.Memory.ReadWord(address)
		if err != nil {
			return err
		}
		d.Printf(" 0x%08X", value)
		address += vm.InstructionSize
	}
	d.Println()

	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints|watchpoints|stack|stats>")
	}

	switch strings.ToLower(args[0]) {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "watchpoints", "watch", "w":
		return d.showWatchpoints()
	case "stack", "s":
		return d.showStack()
	case "stats":
		return d.showStats()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

func (d *Debugger) showRegisters() error {
	d.Println("Registers:")
	for i := 0; i < vm.RegisterCount; i += 4 {
		var cols []string
		for j := i; j < i+4 && j < vm.RegisterCount; j++ {
			cols = append(cols, fmt.Sprintf("x%-2d/%-4s = 0x%08X", j, vm.RegisterName(j), d.VM.CPU.GetRegister(j)))
		}
		d.Println("  " + strings.Join(cols, "  "))
	}
	d.Printf("  pc = 0x%08X  state = %s  steps = %d\n", d.VM.CPU.PC, d.VM.State, d.VM.Steps)

	return nil
}

func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Println("No breakpoints")
		return nil
	}

	d.Println("Breakpoints:")
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}

		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}

		condition := ""
		if bp.Condition != "" {
			condition = fmt.Sprintf(" if %s", bp.Condition)
		}

		d.Printf("  %d: 0x%08X %s%s%s (hit %d times)\n",
			bp.ID, bp.Address, status, temp, condition, bp.HitCount)
	}

	return nil
}

func (d *Debugger) showWatchpoints() error {
	watchpoints := d.Watchpoints.GetAllWatchpoints()
	if len(watchpoints) == 0 {
		d.Println("No watchpoints")
		return nil
	}

	d.Println("Watchpoints:")
	for _, wp := range watchpoints {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}

		d.Printf("  %d: %s %s (hit %d times, last value: 0x%08X)\n",
			wp.ID, wp.Expression, status, wp.HitCount, wp.LastValue)
	}

	return nil
}

func (d *Debugger) showStack() error {
	sp := d.VM.CPU.GetRegister(2) // x2 = sp per the RISC-V calling convention
	d.Printf("Stack (sp = 0x%08X):\n", sp)

	for i := 0; i < 8; i++ {
		addr := sp + uint32(i*4)
		value, err := d.VM.Memory.ReadWord(addr)
		if err != nil {
			break
		}
		d.Printf("  0x%08X: 0x%08X (%d)\n", addr, value, vm.AsInt32(value))
	}

	return nil
}

func (d *Debugger) showStats() error {
	if d.VM.Stats == nil {
		d.Println("No statistics attached to this session")
		return nil
	}

	d.Printf("Instructions executed: %d\n", d.VM.Stats.Total)
	for family := vm.FamilyAluR; family <= vm.FamilyIllegal; family++ {
		if n := d.VM.Stats.Count(family); n > 0 {
			d.Printf("  %-8s %d\n", family, n)
		}
	}

	return nil
}

func (d *Debugger) cmdBacktrace(args []string) error {
	d.Println("Call stack:")
	d.Printf("  #0  pc=0x%08X\n", d.VM.CPU.PC)

	if ra := d.VM.CPU.GetRegister(1); ra != 0 {
		d.Printf("  #1  ra=0x%08X\n", ra)
	}

	return nil
}

func (d *Debugger) cmdSet(args []string) error {
	if len(args) < 3 || args[1] != "=" {
		return fmt.Errorf("usage: set <register|*address> = <value>")
	}

	target := strings.ToLower(args[0])
	value, err := evalValue(args[2], d.VM)
	if err != nil {
		return err
	}

	if strings.HasPrefix(target, "*") {
		address, err := d.ResolveAddress(target[1:])
		if err != nil {
			return err
		}
		if err := d.VM.Memory.WriteWord(address, value); err != nil {
			return err
		}
		d.Printf("Memory 0x%08X set to 0x%08X\n", address, value)
		return nil
	}

	reg, ok := vm.RegisterByName(target)
	if !ok {
		return fmt.Errorf("invalid register: %s", target)
	}

	d.VM.CPU.SetRegister(reg, value)
	d.Printf("Register %s set to 0x%08X\n", target, value)

	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.VM.Reset()
	d.Println("Processor reset")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	if len(args) > 0 {
		return d.showCommandHelp(args[0])
	}

	d.Println("RV32I Debugger Commands:")
	d.Println()
	d.Println("Execution Control:")
	d.Println("  run (r)           - Reset and start program execution")
	d.Println("  continue (c)      - Continue execution")
	d.Println("  step (s, si)      - Execute single instruction")
	d.Println("  next (n)          - Step over a call (JAL/JALR into ra)")
	d.Println("  finish (fin)      - Run until the instruction after this one")
	d.Println()
	d.Println("Breakpoints:")
	d.Println("  break (b) <addr>  - Set breakpoint")
	d.Println("  tbreak (tb) <addr>- Set temporary breakpoint")
	d.Println("  delete (d) [id]   - Delete breakpoint(s)")
	d.Println("  enable <id>       - Enable breakpoint")
	d.Println("  disable <id>      - Disable breakpoint")
	d.Println()
	d.Println("Watchpoints:")
	d.Println("  watch (w) <expr>  - Watch a register or [address] for changes")
	d.Println()
	d.Println("Inspection:")
	d.Println("  print (p) <expr>  - Print a register or literal")
	d.Println("  x[/n] <addr>      - Examine n words of memory")
	d.Println("  info (i) <what>   - registers|breakpoints|watchpoints|stack|stats")
	d.Println("  backtrace (bt)    - Show pc and ra")
	d.Println()
	d.Println("Modification:")
	d.Println("  set <var> = <val> - Modify register/memory")
	d.Println()
	d.Println("Control:")
	d.Println("  reset             - Reset the processor")
	d.Println("  help (h, ?)       - Show this help")

	return nil
}

func (d *Debugger) showCommandHelp(cmd string) error {
	helpText := map[string]string{
		"break": "break <address|label> [if <condition>]\n  Set a breakpoint. condition is '<reg> <op> <value>'.",
		"step":  "step\n  Execute a single instruction.",
		"next":  "next\n  Step over a JAL/JALR call (detected by rd == ra).",
		"print": "print <expression>\n  Print a register or an integer literal.",
		"x":     "x[/n] <address>\n  Examine n words of memory starting at address.",
		"info":  "info <registers|breakpoints|watchpoints|stack|stats>\n  Display information about program state.",
	}

	if help, exists := helpText[cmd]; exists {
		d.Println(help)
		return nil
	}

	return fmt.Errorf("no help available for command: %s", cmd)
}
