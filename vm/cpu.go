// Package vm implements the ttp virtual machine: a cycle-stepped
// interpreter over four registers, five condition flags, and a
// 256-byte flat memory, plus the textual trace format that makes each
// step observable.
package vm

import "github.com/jcamarena/ttpc/isa"

// Flags holds the five condition bits the ALU updates.
type Flags struct {
	Zero     bool
	LessThan bool
	Overflow bool
	Sign     bool
	Carry    bool
}

// Mode is a bitfield controlling trace presentation only; it never
// affects execution semantics.
type Mode byte

const (
	ModeChecker Mode = 1 << 0 // shade alternate trace lines
	ModeColor   Mode = 1 << 1 // color flag bits green/red
)

// VM is the machine state: registers, flags, RAM, and the bookkeeping
// the loader and trace formatter need.
type VM struct {
	PC byte
	A  byte
	B  byte
	C  byte
	D  byte

	RAM [256]byte

	Flags Flags

	Halt             bool
	InstructionCount uint64
	ProgramEdge      byte
	Mode             Mode

	// InterruptAfter stops Run after this many instructions even if
	// Halt was never set. Zero means unlimited.
	InterruptAfter uint64
}

// New returns a VM with all state zeroed, matching the execution
// model's reset semantics (pc=0, registers and flags cleared, halt
// false).
func New() *VM {
	return &VM{}
}

// Register returns a pointer to the named register's storage.
func (m *VM) Register(r isa.Register) *byte {
	switch r {
	case isa.A:
		return &m.A
	case isa.B:
		return &m.B
	case isa.C:
		return &m.C
	default:
		return &m.D
	}
}

// wrap8 applies the memory-wrap rule: truncate to 8 bits via a
// double-mod so the result is always in 0..255 regardless of sign.
func wrap8(v int) byte {
	return byte(((v % 256) + 256) % 256)
}

// Write stores data at addr, both wrapped to 8 bits per §4.5.
func (m *VM) Write(addr, data int) {
	m.RAM[wrap8(addr)] = wrap8(data)
}

// Read loads the byte at addr, wrapped to 8 bits.
func (m *VM) Read(addr int) byte {
	return m.RAM[wrap8(addr)]
}
