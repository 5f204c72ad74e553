package parser

import (
	"strings"

	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/isa"
)

// Lexer is a stateful, line-oriented tokenizer for ttpasm source. State
// resets to Base at the start of every physical line; the opcode seen on
// a line (at its start or right after a label, if any) is cached and
// consulted when later tokens
// on the same line must be disambiguated between a register letter and a
// bare identifier.
type Lexer struct {
	src      string
	filename string
	strict   bool

	pos     int
	readPos int
	ch      byte

	line   int
	column int

	state LexState

	lineOp    isa.Op
	lineHasOp bool

	prevType    TokenType
	havePrevTok bool
}

// NewLexer creates a Lexer over src. strict enables strict mode: register
// letters may never be used as label identifiers, and label lookup
// (performed later, in the symbol table) becomes case-sensitive.
func NewLexer(src, filename string, strict bool) *Lexer {
	l := &Lexer{src: src, filename: filename, strict: strict, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.src) {
		l.ch = 0
	} else {
		l.ch = l.src[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.src) {
		return 0
	}
	return l.src[l.readPos]
}

func (l *Lexer) currentPos() asmerr.Position {
	return asmerr.Position{Filename: l.filename, Line: l.line, Column: l.column}
}

func (l *Lexer) newLine() {
	l.line++
	l.column = 0
	l.state = StateBase
	l.lineHasOp = false
	l.havePrevTok = false
}

func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }
func isLetter(ch byte) bool { return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

// Tokenize runs the lexer to completion, returning every token up to and
// including a trailing Eof, or the first lexical error encountered.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) emit(tt TokenType, text string, pos asmerr.Position) Token {
	tok := Token{Type: tt, Text: text, Line: pos.Line, Column: pos.Column, LexState: l.state}
	l.prevType = tt
	l.havePrevTok = true
	return tok
}

func (l *Lexer) lexErr(pos asmerr.Position, format string, args ...any) error {
	return asmerr.New(pos, asmerr.KindLex, format, args...)
}

func (l *Lexer) next() (Token, error) {
	for {
		switch {
		case l.ch == '\n':
			l.newLine()
			l.readChar()
			continue
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
			continue
		case l.ch == '/':
			if l.peekChar() == '/' {
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			}
			return Token{}, l.lexErr(l.currentPos(), "stray '/': line comments must begin with '//'")
		case l.ch == 0:
			return Token{Type: TokEOF, Line: l.line + 1, Column: 1}, nil
		}
		break
	}

	pos := l.currentPos()

	if l.state == StateBase {
		return l.lexBase(pos)
	}
	return l.lexOperand(pos)
}

func (l *Lexer) lexBase(pos asmerr.Position) (Token, error) {
	ch := l.ch
	switch {
	case isDigit(ch):
		return Token{}, l.lexErr(pos, "unexpected digit %q at start of line", ch)
	case isLetter(ch):
		word := l.readIdentifier()
		if l.ch == ':' {
			l.readChar()
			l.state = StateOperand
			return l.emit(TokLabel, word, pos), nil
		}
		l.state = StateOperand
		l.lineHasOp = true
		if op, ok := isa.Lookup(strings.ToLower(word)); ok {
			l.lineOp = op
		}
		return l.emit(TokOp, word, pos), nil
	default:
		return Token{}, l.lexErr(pos, "unexpected character %q", ch)
	}
}

func (l *Lexer) lexOperand(pos asmerr.Position) (Token, error) {
	switch l.ch {
	case ',':
		l.readChar()
		return l.emit(TokComma, ",", pos), nil
	case '+':
		l.readChar()
		return l.emit(TokPlus, "+", pos), nil
	case '.':
		l.readChar()
		return l.emit(TokDot, ".", pos), nil
	case '-':
		if isDigit(l.peekChar()) {
			l.readChar() // consume '-'
			start := l.pos
			for isDigit(l.ch) {
				l.readChar()
			}
			return l.emit(TokNumber, "-"+l.src[start:l.pos], pos), nil
		}
		l.readChar()
		return l.emit(TokMinus, "-", pos), nil
	case '(':
		return l.lexPtrReg(pos)
	default:
		switch {
		case isDigit(l.ch):
			start := l.pos
			for isDigit(l.ch) {
				l.readChar()
			}
			return l.emit(TokNumber, l.src[start:l.pos], pos), nil
		case isLetter(l.ch):
			return l.lexOperandWord(pos)
		default:
			return Token{}, l.lexErr(pos, "unexpected character %q", l.ch)
		}
	}
}

func (l *Lexer) lexPtrReg(pos asmerr.Position) (Token, error) {
	l.readChar() // consume '('
	ch := l.ch
	if ch != 'a' && ch != 'b' && ch != 'c' && ch != 'd' {
		return Token{}, l.lexErr(pos, "invalid register letter %q after '('; expected one of a,b,c,d", ch)
	}
	l.readChar()
	if l.ch != ')' {
		return Token{}, l.lexErr(pos, "missing ')' after pointer register")
	}
	l.readChar()
	return l.emit(TokPtrReg, string(ch), pos), nil
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.src[start:l.pos]
}

func (l *Lexer) lexOperandWord(pos asmerr.Position) (Token, error) {
	word := l.readIdentifier()
	if !l.lineHasOp {
		// an opcode may follow a label definition on the same line
		if op, ok := isa.Lookup(strings.ToLower(word)); ok {
			l.lineHasOp = true
			l.lineOp = op
			return l.emit(TokOp, word, pos), nil
		}
	}
	if len(word) == 1 {
		if ch := word[0]; ch == 'a' || ch == 'b' || ch == 'c' || ch == 'd' {
			asReg, err := l.disambiguate(pos)
			if err != nil {
				return Token{}, err
			}
			if asReg {
				return l.emit(TokReg, word, pos), nil
			}
			return l.emit(TokIdentifier, word, pos), nil
		}
	}
	return l.emit(TokIdentifier, word, pos), nil
}

// disambiguate implements the Reg-vs-Identifier decision table of the
// lexer's operand-context rules, driven by the opcode cached for the
// current line and the token immediately preceding this one.
func (l *Lexer) disambiguate(pos asmerr.Position) (asReg bool, err error) {
	asReg = func() bool {
		if !l.lineHasOp {
			return false
		}
		op := l.lineOp
		if op == isa.BYTE {
			return false
		}
		if op.ByteCount() == 2 && op.ParamCount() == 1 {
			return false
		}
		if op.ByteCount() == 2 && op.ParamCount() == 2 {
			return l.havePrevTok && l.prevType == TokOp
		}
		return true
	}()

	if !asReg && l.strict {
		return false, l.lexErr(pos, "label identifier cannot be a register letter in strict mode")
	}
	return asReg, nil
}
