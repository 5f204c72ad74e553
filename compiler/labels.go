package compiler

import (
	"strings"

	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/parser"
)

// Label is one entry of the label table: its address, and — for labels
// defined with a body expression — the expression to evaluate in its
// place whenever the label is referenced.
type Label struct {
	Name string
	Addr byte
	Body *parser.Expression
}

// LabelTable maps label names to addresses. Lookup is case-insensitive
// unless strict mode is on, matching the lexer's own strict-mode rule
// that register letters can never be used as label names.
type LabelTable struct {
	strict bool
	byKey  map[string]*Label
}

// NewLabelTable creates an empty table.
func NewLabelTable(strict bool) *LabelTable {
	return &LabelTable{strict: strict, byKey: make(map[string]*Label)}
}

func (lt *LabelTable) key(name string) string {
	if lt.strict {
		return name
	}
	return strings.ToLower(name)
}

// Define registers a new label. Re-defining an existing name is an error,
// matched case-insensitively unless strict mode is on.
func (lt *LabelTable) Define(name string, addr byte, body *parser.Expression, pos asmerr.Position) error {
	k := lt.key(name)
	if existing, ok := lt.byKey[k]; ok {
		return asmerr.New(pos, asmerr.KindSemantic, "duplicate label %q (first defined at address %d)", name, existing.Addr)
	}
	lt.byKey[k] = &Label{Name: name, Addr: addr, Body: body}
	return nil
}

// Lookup resolves a label reference.
func (lt *LabelTable) Lookup(name string) (*Label, bool) {
	l, ok := lt.byKey[lt.key(name)]
	return l, ok
}
