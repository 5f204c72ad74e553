package compiler

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/jcamarena/ttpc/parser"
)

func assemble(t *testing.T, src string, strict bool) *Program {
	t.Helper()
	lex := parser.NewLexer(src, "test.ttpasm", strict)
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	root, err := parser.NewParser(tokens, "test.ttpasm").Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, err := NewCompiler("test.ttpasm", strict).Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return prog
}

func assertBytes(t *testing.T, prog *Program, want string) {
	t.Helper()
	wantBytes, err := hex.DecodeString(strings.ReplaceAll(want, " ", ""))
	if err != nil {
		t.Fatalf("bad want hex %q: %v", want, err)
	}
	if string(prog.Bytes) != string(wantBytes) {
		t.Errorf("got % X, want %s", prog.Bytes, want)
	}
}

func TestNopHalt(t *testing.T) {
	assertBytes(t, assemble(t, "nop\nhalt", false), "00 01")
}

func TestImmediateLoadAndAdd(t *testing.T) {
	src := "ldi a, 5\nldi b, 7\nadd a, b\nhalt"
	assertBytes(t, assemble(t, src, false), "6C 05 6D 07 81 01")
}

func TestLabelBackReference(t *testing.T) {
	src := "ldi a, target\njmp a\ntarget: halt"
	assertBytes(t, assemble(t, src, false), "6C 03 B1 01")
}

func TestSelfReferenceViaDot(t *testing.T) {
	assertBytes(t, assemble(t, "jmpi .", false), "40 00")
}

func TestLabelWithBody(t *testing.T) {
	src := "foo: 1 2 +\nbyte foo"
	assertBytes(t, assemble(t, src, false), "03")
}

func TestNegativeLiteralWrap(t *testing.T) {
	assertBytes(t, assemble(t, "byte -2", false), "FE")
}

func TestDuplicateLabelIsError(t *testing.T) {
	src := "foo: halt\nfoo: halt"
	lex := parser.NewLexer(src, "t", false)
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	root, err := parser.NewParser(tokens, "t").Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := NewCompiler("t", false).Compile(root); err == nil {
		t.Error("expected duplicate label error")
	}
}

func TestCyclicLabelBodyIsError(t *testing.T) {
	src := "a: b\nb: a\nbyte a"
	lex := parser.NewLexer(src, "t", false)
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	root, err := parser.NewParser(tokens, "t").Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := NewCompiler("t", false).Compile(root); err == nil {
		t.Error("expected cyclic label reference error")
	}
}

func TestCaseInsensitiveLabelsUnlessStrict(t *testing.T) {
	src := "ldi a, TARGET\njmp a\ntarget: halt"
	assertBytes(t, assemble(t, src, false), "6C 03 B1 01")

	lex := parser.NewLexer(src, "t", true)
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	root, err := parser.NewParser(tokens, "t").Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := NewCompiler("t", true).Compile(root); err == nil {
		t.Error("expected undefined label error in strict mode (case mismatch)")
	}
}

func TestIncDecEncodeLikeOrCmpWithEqualOperands(t *testing.T) {
	// inc a == or a,a bit pattern; dec a == cmp a,a bit pattern.
	incProg := assemble(t, "inc a", false)
	orProg := assemble(t, "or a, a", false)
	assertBytes(t, incProg, hex.EncodeToString(orProg.Bytes))

	decProg := assemble(t, "dec a", false)
	cmpProg := assemble(t, "cmp a, a", false)
	assertBytes(t, decProg, hex.EncodeToString(cmpProg.Bytes))
}
