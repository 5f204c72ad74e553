package compiler

import (
	"strconv"

	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/isa"
	"github.com/jcamarena/ttpc/parser"
)

// eval recursively evaluates an expression tree to a wrapped 8-bit value.
// currentAddr is the byte_addr of the statement the expression belongs to
// (used for Dot); for a label's body expression this is the label's own
// address, fixed at definition time, not the address of whichever
// instruction references the label.
func (c *Compiler) eval(e *parser.Expression, currentAddr byte) (byte, error) {
	pos := asmerr.Position{Filename: c.filename, Line: e.Line, Column: e.Column}

	switch e.Kind {
	case parser.ExprDot:
		return currentAddr, nil

	case parser.ExprValue:
		return parseValue(e.Text, pos)

	case parser.ExprRegister:
		reg, ok := isa.RegisterFromChar(e.Text[0])
		if !ok {
			return 0, asmerr.New(pos, asmerr.KindSemantic, "invalid register letter %q", e.Text)
		}
		return reg.Bits(), nil

	case parser.ExprLabelPtr:
		return c.evalLabelPtr(e.Text, pos)

	case parser.ExprEquation:
		left, err := c.eval(e.Children[0], currentAddr)
		if err != nil {
			return 0, err
		}
		right, err := c.eval(e.Children[1], currentAddr)
		if err != nil {
			return 0, err
		}
		if e.Text == "+" {
			return left + right, nil
		}
		return left - right, nil

	default:
		return 0, asmerr.New(pos, asmerr.KindSemantic, "unevaluable expression kind %s", e.Kind)
	}
}

// evalLabelPtr resolves a label reference: the label's address, or — for
// labels with a body expression — that expression evaluated recursively.
// c.evaluating guards against cyclic label bodies.
func (c *Compiler) evalLabelPtr(name string, pos asmerr.Position) (byte, error) {
	label, ok := c.labels.Lookup(name)
	if !ok {
		return 0, asmerr.New(pos, asmerr.KindSemantic, "undefined label %q", name)
	}
	if label.Body == nil {
		return label.Addr, nil
	}

	key := c.labels.key(name)
	if c.evaluating[key] {
		return 0, asmerr.New(pos, asmerr.KindSemantic, "cyclic label reference involving %q", name)
	}
	c.evaluating[key] = true
	defer delete(c.evaluating, key)

	return c.eval(label.Body, label.Addr)
}

// parseValue parses a Number token's text, which may carry a leading '-'
// produced by the lexer's minus-fusion. Negative literals wrap silently;
// positive literals outside 0..255 are an error.
func parseValue(text string, pos asmerr.Position) (byte, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, asmerr.New(pos, asmerr.KindSemantic, "invalid numeric literal %q", text)
	}
	if len(text) > 0 && text[0] == '-' {
		wrapped := ((n % 256) + 256) % 256
		return byte(wrapped), nil
	}
	if n > 255 {
		return 0, asmerr.New(pos, asmerr.KindSemantic, "literal %d out of 8-bit range", n)
	}
	return byte(n), nil
}
