package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

// evalValue resolves a single token to a uint32: a register name (ABI or
// xN form), a 0x-prefixed hex literal, or a plain decimal literal.
func evalValue(token string, p *vm.Processor) (uint32, error) {
	token = strings.TrimSpace(token)

	if reg, ok := vm.RegisterByName(token); ok {
		return p.CPU.GetRegister(reg), nil
	}
	if strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X") {
		v, err := strconv.ParseUint(token[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex literal %q: %w", token, err)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: not a register or literal", token)
	}
	return uint32(v), nil
}

// evalCondition evaluates a breakpoint condition of the form
// "<register> <op> <value>", where op is one of ==, !=, <, >, <=, >=.
// This is deliberately small: the debugger only needs to gate a stop, not
// evaluate general arithmetic.
func evalCondition(cond string, p *vm.Processor) (bool, error) {
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if idx := strings.Index(cond, op); idx >= 0 {
			lhs, err := evalValue(cond[:idx], p)
			if err != nil {
				return false, err
			}
			rhs, err := evalValue(cond[idx+len(op):], p)
			if err != nil {
				return false, err
			}
			return compare(lhs, rhs, op), nil
		}
	}
	return false, fmt.Errorf("condition %q must contain one of ==, !=, <, >, <=, >=", cond)
}

func compare(lhs, rhs uint32, op string) bool {
	switch op {
	case "==":
		return lhs == rhs
	case "!=":
		return lhs != rhs
	case "<":
		return lhs < rhs
	case ">":
		return lhs > rhs
	case "<=":
		return lhs <= rhs
	case ">=":
		return lhs >= rhs
	default:
		return false
	}
}
