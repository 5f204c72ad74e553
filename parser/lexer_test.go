package parser

import "testing"

func tokenTypes(toks []Token) []TokenType {
	types := make([]TokenType, len(toks))
	for i, t := range toks {
		types[i] = t.Type
	}
	return types
}

func TestRegisterVsIdentifierOneByteOp(t *testing.T) {
	// not has byte_count 1: a bare register letter is a Reg.
	toks, err := NewLexer("not a", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Type != TokReg {
		t.Errorf("got %s, want Reg", toks[1].Type)
	}
}

func TestRegisterVsIdentifierByteDirective(t *testing.T) {
	toks, err := NewLexer("byte a", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Type != TokIdentifier {
		t.Errorf("got %s, want Identifier (byte always takes an identifier/expression)", toks[1].Type)
	}
}

func TestRegisterVsIdentifierTwoByteOneParam(t *testing.T) {
	toks, err := NewLexer("jmpi a", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Type != TokIdentifier {
		t.Errorf("got %s, want Identifier", toks[1].Type)
	}
}

func TestRegisterVsIdentifierTwoByteTwoParam(t *testing.T) {
	// ldi Y,E : first operand position (right after the Op) is Reg;
	// a subsequent bare letter not immediately after the Op is an
	// Identifier (it's the immediate-expression position).
	toks, err := NewLexer("ldi a, b", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Type != TokReg {
		t.Errorf("first operand = %s, want Reg", toks[1].Type)
	}
	if toks[3].Type != TokIdentifier {
		t.Errorf("second operand = %s, want Identifier", toks[3].Type)
	}
}

func TestStrictModeForbidsRegisterLetterAsLabel(t *testing.T) {
	_, err := NewLexer("byte a", "t", true).Tokenize()
	if err == nil {
		t.Error("expected strict-mode error for register letter used as identifier")
	}
}

func TestMinusFusion(t *testing.T) {
	toks, err := NewLexer("byte -2", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[1].Type != TokNumber || toks[1].Text != "-2" {
		t.Errorf("got %s %q, want Number -2", toks[1].Type, toks[1].Text)
	}
}

func TestPointerRegister(t *testing.T) {
	toks, err := NewLexer("ld a, (b)", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[3].Type != TokPtrReg || toks[3].Text != "b" {
		t.Errorf("got %s %q, want PtrReg b", toks[3].Type, toks[3].Text)
	}
}

func TestStrayMinusIsMinusToken(t *testing.T) {
	toks, err := NewLexer("byte foo - 1", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if toks[2].Type != TokMinus {
		t.Errorf("got %s, want Minus", toks[2].Type)
	}
}

func TestStrayDoubleSlashComment(t *testing.T) {
	toks, err := NewLexer("nop // trailing comment\nhalt", "t", false).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	got := tokenTypes(toks)
	want := []TokenType{TokOp, TokOp, TokEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDigitAtLineStartIsError(t *testing.T) {
	_, err := NewLexer("5", "t", false).Tokenize()
	if err == nil {
		t.Error("expected lex error for digit at start of line")
	}
}
