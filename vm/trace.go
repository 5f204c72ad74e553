package vm

import "fmt"

// formatTrace renders the line documented in §4.5:
//
//	NNN : PC[PP]->(OP[mnem] L=LL,R=RR) | REG=VV | RAM_R[AA]=VV | FLAGS[ c=C z=Z s=S o=O l=L ]
//
// m.Mode controls two presentation layers on top of this text: ModeChecker
// shades every other line (by InstructionCount parity) and ModeColor
// colors each flag bit green/red. Neither changes the fields themselves.
func formatTrace(m *VM, pc0 byte, d decoded, info traceInfo) string {
	l, r := "", ""
	if info.lUsed {
		l = fmt.Sprintf("%d", info.lVal)
	}
	if info.rUsed {
		r = fmt.Sprintf("%d", info.rVal)
	}

	reg := ""
	if info.regUsed {
		reg = fmt.Sprintf("%s=%d", info.regName, info.regVal)
	}

	ram := ""
	switch {
	case info.ramRead:
		ram = fmt.Sprintf("RAM_R[%02X]=%d", info.ramAddr, info.ramVal)
	case info.ramWrite:
		ram = fmt.Sprintf("RAM_W[%02X]=%d", info.ramAddr, info.ramVal)
	}

	line := fmt.Sprintf("%03d : PC[%02X]->(OP[%s] L=%s,R=%s) | %s | %s | %s",
		m.InstructionCount, pc0, d.op, l, r, reg, ram, formatFlags(m.Flags, m.Mode))

	if m.Mode&ModeChecker != 0 && m.InstructionCount%2 == 0 {
		line = "\x1b[100m" + line + "\x1b[0m"
	}
	return line
}

func formatFlags(f Flags, mode Mode) string {
	return fmt.Sprintf("FLAGS[ c=%s z=%s s=%s o=%s l=%s ]",
		colorBit(f.Carry, mode), colorBit(f.Zero, mode), colorBit(f.Sign, mode), colorBit(f.Overflow, mode), colorBit(f.LessThan, mode))
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// colorBit wraps bit(b) in an ANSI color escape when mode has ModeColor
// set: green for a set flag, red for a clear one.
func colorBit(b bool, mode Mode) string {
	s := bit(b)
	if mode&ModeColor == 0 {
		return s
	}
	if b {
		return "\x1b[32m" + s + "\x1b[0m"
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

// RunTraced steps the machine to completion (or to the interrupt cap),
// returning one trace line per executed instruction.
func (m *VM) RunTraced() []string {
	var lines []string
	for !m.Halt {
		if m.InterruptAfter != 0 && m.InstructionCount >= m.InterruptAfter {
			break
		}
		lines = append(lines, m.StepTrace())
	}
	return lines
}
