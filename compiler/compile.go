// Package compiler implements the assembler's two passes: label
// collection and bit-exact opcode encoding, turning a parser.RootNode
// into a Program byte image.
package compiler

import (
	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/isa"
	"github.com/jcamarena/ttpc/parser"
)

// Program is the compiled byte image. Opcode tags used while encoding
// are not persisted here; the VM re-decodes bytes directly from the
// image.
type Program struct {
	Bytes []byte
}

// Compiler holds the state shared by both passes: the label table and
// the strict-mode flag that governs how it is keyed.
type Compiler struct {
	filename   string
	strict     bool
	labels     *LabelTable
	evaluating map[string]bool
}

// NewCompiler creates a Compiler for a single compilation unit.
func NewCompiler(filename string, strict bool) *Compiler {
	return &Compiler{
		filename:   filename,
		strict:     strict,
		labels:     NewLabelTable(strict),
		evaluating: make(map[string]bool),
	}
}

// Compile runs both passes over root and returns the resulting image.
func (c *Compiler) Compile(root *parser.RootNode) (*Program, error) {
	if err := c.gatherLabels(root); err != nil {
		return nil, err
	}

	var out []byte
	for _, stmt := range root.Statements {
		if stmt.Kind != parser.StmtOperation {
			continue
		}
		op, ok := isa.Lookup(stmt.Text)
		if !ok {
			return nil, asmerr.New(asmerr.Position{Filename: c.filename, Line: stmt.Line, Column: stmt.Column},
				asmerr.KindSemantic, "unknown mnemonic %q", stmt.Text)
		}
		encoded, err := c.encode(op, stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return &Program{Bytes: out}, nil
}

// gatherLabels is the compiler's first pass: walk every Label statement
// in source order and register it, failing on a duplicate name.
func (c *Compiler) gatherLabels(root *parser.RootNode) error {
	for _, stmt := range root.Statements {
		if stmt.Kind != parser.StmtLabel {
			continue
		}
		var body *parser.Expression
		if len(stmt.Children) == 1 {
			body = stmt.Children[0]
		}
		pos := asmerr.Position{Filename: c.filename, Line: stmt.Line, Column: stmt.Column}
		if err := c.labels.Define(stmt.Text, byte(stmt.ByteAddr), body, pos); err != nil {
			return err
		}
	}
	return nil
}

// encode produces the one or two bytes for a single Operation statement,
// per the bit-exact table. addr is the statement's own byte_addr, used as
// the Dot value for any "." operand.
func (c *Compiler) encode(op isa.Op, stmt *parser.Statement) ([]byte, error) {
	addr := byte(stmt.ByteAddr)
	pos := asmerr.Position{Filename: c.filename, Line: stmt.Line, Column: stmt.Column}

	arg := func(i int) (byte, error) { return c.eval(stmt.Children[i], addr) }

	switch op {
	case isa.NOP:
		return []byte{0b0000_0000}, nil
	case isa.HALT:
		return []byte{0b0000_0001}, nil
	case isa.BYTE:
		v, err := arg(0)
		return []byte{v}, err

	case isa.JMPI, isa.JLI, isa.JOI, isa.JSI, isa.JCI, isa.JZI:
		var base byte
		switch op {
		case isa.JMPI:
			base = 0x40
		case isa.JLI:
			base = 0x41
		case isa.JOI:
			base = 0x42
		case isa.JSI:
			base = 0x43
		case isa.JCI:
			base = 0x44
		case isa.JZI:
			base = 0x45
		}
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{base, v}, nil

	case isa.CPR:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		y, err := arg(1)
		if err != nil {
			return nil, err
		}
		return []byte{0x50 | (x << 2) | y}, nil

	case isa.JL, isa.JO, isa.JS:
		y, err := arg(0)
		if err != nil {
			return nil, err
		}
		var base byte
		switch op {
		case isa.JL:
			base = 0x60
		case isa.JO:
			base = 0x64
		case isa.JS:
			base = 0x68
		}
		return []byte{base | y}, nil

	case isa.LDI:
		y, err := arg(0)
		if err != nil {
			return nil, err
		}
		v, err := arg(1)
		if err != nil {
			return nil, err
		}
		return []byte{0x6C | y, v}, nil

	case isa.LD:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0x70 | (x << 2) | y}, nil

	case isa.ADD:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0x80 | (x << 2) | y}, nil

	case isa.SUB:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0x90 | (x << 2) | y}, nil

	case isa.RSH:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0xA0 | (x << 2) | y}, nil

	case isa.NOT:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{0xB0 | (x << 2) | 0b00}, nil
	case isa.JMP:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{0xB0 | (x << 2) | 0b01}, nil
	case isa.JC:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{0xB0 | (x << 2) | 0b10}, nil
	case isa.JZ:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{0xB0 | (x << 2) | 0b11}, nil

	case isa.AND:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0xC0 | (x << 2) | y}, nil

	case isa.OR:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0xD0 | (x << 2) | y}, nil

	case isa.CMP:
		x, y, err := regPair(c, stmt, addr)
		if err != nil {
			return nil, err
		}
		return []byte{0xE0 | (x << 2) | y}, nil

	case isa.ST:
		// source syntax is "st address, source": address-register first,
		// source-register second; encoded with source in bits 2-3 and
		// address in bits 0-1.
		addrReg, err := arg(0)
		if err != nil {
			return nil, err
		}
		srcReg, err := arg(1)
		if err != nil {
			return nil, err
		}
		return []byte{0xF0 | (srcReg << 2) | addrReg}, nil

	case isa.INC:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{0xD0 | (x << 2) | x}, nil

	case isa.DEC:
		x, err := arg(0)
		if err != nil {
			return nil, err
		}
		return []byte{0xE0 | (x << 2) | x}, nil
	}

	return nil, asmerr.New(pos, asmerr.KindSemantic, "unsupported opcode %s", op)
}

func regPair(c *Compiler, stmt *parser.Statement, addr byte) (x, y byte, err error) {
	x, err = c.eval(stmt.Children[0], addr)
	if err != nil {
		return 0, 0, err
	}
	y, err = c.eval(stmt.Children[1], addr)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
