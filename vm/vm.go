package vm

import "github.com/jcamarena/ttpc/isa"

// Load copies program bytes into RAM starting at address 0 and records
// the highest address written. It errors if the image does not fit in
// the 256-byte address space.
func (m *VM) Load(program []byte) error {
	if len(program) > len(m.RAM) {
		return errTooLarge(len(program), len(m.RAM))
	}
	copy(m.RAM[:], program)
	if len(program) > 0 {
		m.ProgramEdge = byte(len(program) - 1)
	}
	return nil
}

type loadError struct {
	got, max int
}

func (e *loadError) Error() string {
	return "program too large to load: " + itoa(e.got) + " bytes, RAM holds " + itoa(e.max)
}

func errTooLarge(got, max int) error { return &loadError{got, max} }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// decoded is one fetched-and-decoded instruction: the opcode plus
// whatever register/immediate operands its encoding carries. Not every
// field is meaningful for every op; step() knows which ones it needs.
type decoded struct {
	op        isa.Op
	x, y      isa.Register
	hasImm    bool
	immediate byte
	size      byte // total bytes this instruction occupies, 1 or 2
}

// decode interprets the byte at ram[pc] per the bit-exact table in
// §4.3, plus the register-equality disambiguation between or/cmp and
// inc/dec documented as an open question: inc and dec are encoded
// identically to or X,X and cmp X,X, and are told apart only by X==Y
// at decode time.
func (m *VM) decode(pc byte) decoded {
	b := m.RAM[pc]
	regOf := func(bits byte) isa.Register { return isa.Register(bits & 3) }

	switch {
	case b == 0x00:
		return decoded{op: isa.NOP, size: 1}
	case b == 0x01:
		return decoded{op: isa.HALT, size: 1}
	case b == 0x40:
		return decoded{op: isa.JMPI, hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b == 0x41:
		return decoded{op: isa.JLI, hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b == 0x42:
		return decoded{op: isa.JOI, hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b == 0x43:
		return decoded{op: isa.JSI, hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b == 0x44:
		return decoded{op: isa.JCI, hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b == 0x45:
		return decoded{op: isa.JZI, hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b&0xF0 == 0x50:
		return decoded{op: isa.CPR, x: regOf(b >> 2), y: regOf(b), size: 1}
	case b&0xFC == 0x60:
		return decoded{op: isa.JL, y: regOf(b), size: 1}
	case b&0xFC == 0x64:
		return decoded{op: isa.JO, y: regOf(b), size: 1}
	case b&0xFC == 0x68:
		return decoded{op: isa.JS, y: regOf(b), size: 1}
	case b&0xFC == 0x6C:
		return decoded{op: isa.LDI, y: regOf(b), hasImm: true, immediate: m.Read(int(pc) + 1), size: 2}
	case b&0xF0 == 0x70:
		return decoded{op: isa.LD, x: regOf(b >> 2), y: regOf(b), size: 1}
	case b&0xF0 == 0x80:
		return decoded{op: isa.ADD, x: regOf(b >> 2), y: regOf(b), size: 1}
	case b&0xF0 == 0x90:
		return decoded{op: isa.SUB, x: regOf(b >> 2), y: regOf(b), size: 1}
	case b&0xF0 == 0xA0:
		return decoded{op: isa.RSH, x: regOf(b >> 2), y: regOf(b), size: 1}
	case b&0xF0 == 0xB0:
		x := regOf(b >> 2)
		switch b & 3 {
		case 0:
			return decoded{op: isa.NOT, x: x, size: 1}
		case 1:
			return decoded{op: isa.JMP, x: x, size: 1}
		case 2:
			return decoded{op: isa.JC, x: x, size: 1}
		default:
			return decoded{op: isa.JZ, x: x, size: 1}
		}
	case b&0xF0 == 0xC0:
		return decoded{op: isa.AND, x: regOf(b >> 2), y: regOf(b), size: 1}
	case b&0xF0 == 0xD0:
		x, y := regOf(b>>2), regOf(b)
		if x == y {
			return decoded{op: isa.INC, x: x, size: 1}
		}
		return decoded{op: isa.OR, x: x, y: y, size: 1}
	case b&0xF0 == 0xE0:
		x, y := regOf(b>>2), regOf(b)
		if x == y {
			return decoded{op: isa.DEC, x: x, size: 1}
		}
		return decoded{op: isa.CMP, x: x, y: y, size: 1}
	case b&0xF0 == 0xF0:
		// source in bits 2-3, address in bits 0-1.
		return decoded{op: isa.ST, x: regOf(b), y: regOf(b >> 2), size: 1}
	default:
		// No mnemonic maps to 0x02-0x3F or 0x46-0x4F; treat as a no-op
		// rather than trap, since undefined regions may hold byte data
		// that a program never intends to execute.
		return decoded{op: isa.NOP, size: 1}
	}
}

// traceInfo captures the operand and side-effect values a trace line
// needs, filled in by step as it executes.
type traceInfo struct {
	lUsed, rUsed bool
	lVal, rVal   byte

	regUsed bool
	regName string
	regVal  byte

	ramRead, ramWrite bool
	ramAddr           byte
	ramVal            byte
}

// Step executes a single instruction. It is a no-op once Halt is set.
func (m *VM) Step() {
	m.step(nil)
}

// StepTrace executes a single instruction and returns its trace line,
// per the format in §4.5. It is the caller's responsibility to check
// Halt before calling again.
func (m *VM) StepTrace() string {
	var info traceInfo
	pc0 := m.PC
	d := m.step(&info)
	return formatTrace(m, pc0, d, info)
}

func (m *VM) step(info *traceInfo) decoded {
	if m.Halt {
		return decoded{op: isa.HALT, size: 1}
	}

	pc0 := m.PC
	d := m.decode(pc0)

	nextPC := pc0
	if d.size == 2 {
		nextPC = wrap8(int(pc0) + 1)
	}

	note := func(reg isa.Register, val byte) {
		if info != nil {
			info.regUsed = true
			info.regName = reg.String()
			info.regVal = val
		}
	}
	noteLR := func(l, r byte, hasR bool) {
		if info != nil {
			info.lUsed, info.lVal = true, l
			if hasR {
				info.rUsed, info.rVal = true, r
			}
		}
	}
	noteRAMRead := func(addr, val byte) {
		if info != nil {
			info.ramRead, info.ramAddr, info.ramVal = true, addr, val
		}
	}
	noteRAMWrite := func(addr, val byte) {
		if info != nil {
			info.ramWrite, info.ramAddr, info.ramVal = true, addr, val
		}
	}

	switch d.op {
	case isa.NOP:
	case isa.HALT:
		m.Halt = true

	case isa.JMPI:
		nextPC = wrap8(int(d.immediate) - 1)
	case isa.JLI:
		if m.Flags.LessThan {
			nextPC = wrap8(int(d.immediate) - 1)
		}
	case isa.JOI:
		if m.Flags.Overflow {
			nextPC = wrap8(int(d.immediate) - 1)
		}
	case isa.JSI:
		if m.Flags.Sign {
			nextPC = wrap8(int(d.immediate) - 1)
		}
	case isa.JCI:
		if m.Flags.Carry {
			nextPC = wrap8(int(d.immediate) - 1)
		}
	case isa.JZI:
		if m.Flags.Zero {
			nextPC = wrap8(int(d.immediate) - 1)
		}

	case isa.JMP:
		target := *m.Register(d.x)
		noteLR(target, 0, false)
		nextPC = wrap8(int(target) - 1)
	case isa.JL:
		target := *m.Register(d.y)
		noteLR(target, 0, false)
		if m.Flags.LessThan {
			nextPC = wrap8(int(target) - 1)
		}
	case isa.JO:
		target := *m.Register(d.y)
		noteLR(target, 0, false)
		if m.Flags.Overflow {
			nextPC = wrap8(int(target) - 1)
		}
	case isa.JS:
		target := *m.Register(d.y)
		noteLR(target, 0, false)
		if m.Flags.Sign {
			nextPC = wrap8(int(target) - 1)
		}
	case isa.JC:
		target := *m.Register(d.x)
		noteLR(target, 0, false)
		if m.Flags.Carry {
			nextPC = wrap8(int(target) - 1)
		}
	case isa.JZ:
		target := *m.Register(d.x)
		noteLR(target, 0, false)
		if m.Flags.Zero {
			nextPC = wrap8(int(target) - 1)
		}

	case isa.CPR:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		*l = *r
		note(d.x, *l)

	case isa.LDI:
		r := m.Register(d.y)
		*r = d.immediate
		note(d.y, *r)

	case isa.LD:
		addr := *m.Register(d.y)
		val := m.Read(int(addr))
		noteRAMRead(addr, val)
		x := m.Register(d.x)
		*x = val
		note(d.x, *x)

	case isa.ST:
		// decode put the address register in d.x, the source register in
		// d.y (bits 0-1 / 2-3 respectively, per the table's "address in
		// YY, source in XX").
		addr := *m.Register(d.x)
		val := *m.Register(d.y)
		m.Write(int(addr), int(val))
		noteRAMWrite(addr, val)

	case isa.ADD:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		result, f := aluAdd(*l, *r)
		*l = result
		m.Flags = f
		note(d.x, *l)

	case isa.SUB:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		result, f := aluSub(*l, *r)
		*l = result
		m.Flags = f
		note(d.x, *l)

	case isa.CMP:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		m.Flags = aluCmp(*l, *r)

	case isa.AND:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		result := *l & *r
		f := aluBitwise(*l, *r, result)
		f.Carry, f.Overflow = m.Flags.Carry, m.Flags.Overflow
		*l = result
		m.Flags = f
		note(d.x, *l)

	case isa.OR:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		result := *l | *r
		f := aluBitwise(*l, *r, result)
		f.Carry, f.Overflow = m.Flags.Carry, m.Flags.Overflow
		*l = result
		m.Flags = f
		note(d.x, *l)

	case isa.NOT:
		x := m.Register(d.x)
		noteLR(*x, 0, false)
		result := ^*x
		f := aluUnary(*x, result)
		f.Carry, f.Overflow = m.Flags.Carry, m.Flags.Overflow
		*x = result
		m.Flags = f
		note(d.x, *x)

	case isa.RSH:
		l, r := m.Register(d.x), m.Register(d.y)
		noteLR(*l, *r, true)
		// unmasked: Go's byte >> uint(n) already yields 0 for n >= 8,
		// matching spec's r = X >> Y with no modulo.
		result := *l >> uint(*r)
		f := aluUnary(*l, result)
		f.Carry, f.Overflow = m.Flags.Carry, m.Flags.Overflow
		*l = result
		m.Flags = f
		note(d.x, *l)

	case isa.INC:
		x := m.Register(d.x)
		noteLR(*x, 0, false)
		*x = wrap8(int(*x) + 1)
		note(d.x, *x)

	case isa.DEC:
		x := m.Register(d.x)
		noteLR(*x, 0, false)
		*x = wrap8(int(*x) - 1)
		note(d.x, *x)

	case isa.BYTE:
		// never produced by decode; byte-directive data is inert once
		// loaded unless another opcode's bit pattern happens to match it.
	}

	m.PC = wrap8(int(nextPC) + 1)
	m.InstructionCount++
	return d
}

// Run steps the machine until Halt is set or the interrupt-after cap
// (if nonzero) is reached.
func (m *VM) Run() {
	for !m.Halt {
		if m.InterruptAfter != 0 && m.InstructionCount >= m.InterruptAfter {
			return
		}
		m.Step()
	}
}
