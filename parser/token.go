package parser

import "fmt"

// TokenType enumerates the closed set of lexical kinds the lexer emits.
type TokenType int

const (
	TokOp TokenType = iota
	TokReg
	TokPtrReg
	TokLabel
	TokIdentifier
	TokNumber
	TokPlus
	TokMinus
	TokComma
	TokDot
	TokEOF
)

var tokenNames = map[TokenType]string{
	TokOp:         "Op",
	TokReg:        "Reg",
	TokPtrReg:     "PtrReg",
	TokLabel:      "Label",
	TokIdentifier: "Identifier",
	TokNumber:     "Number",
	TokPlus:       "Plus",
	TokMinus:      "Minus",
	TokComma:      "Comma",
	TokDot:        "Dot",
	TokEOF:        "Eof",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// LexState records which lexer state was in effect when a token was
// produced.
type LexState int

const (
	StateBase LexState = iota
	StateOperand
)

func (s LexState) String() string {
	if s == StateBase {
		return "Base"
	}
	return "Operand"
}

// Token is one lexical unit of ttpasm source.
type Token struct {
	Type     TokenType
	Text     string
	Line     int
	Column   int
	LexState LexState
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Text, t.Line, t.Column)
}

// Dump renders a token the way --dump prints the token stream: kind,
// literal text, source position and the lexer state that produced it.
func (t Token) Dump() string {
	return fmt.Sprintf("%s:%q [%d:%d] state=%s", t.Type, t.Text, t.Line, t.Column, t.LexState)
}
