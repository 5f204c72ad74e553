package parser

import (
	"strings"

	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/isa"
)

// Parser turns a token stream into a RootNode, assigning byte addresses to
// operation statements as it goes — the assembler's first pass.
type Parser struct {
	tokens   []Token
	pos      int
	filename string
}

// NewParser wraps a completed token stream (as produced by Lexer.Tokenize).
func NewParser(tokens []Token, filename string) *Parser {
	return &Parser{tokens: tokens, filename: filename}
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) posOf(t Token) asmerr.Position {
	return asmerr.Position{Filename: p.filename, Line: t.Line, Column: t.Column}
}

func (p *Parser) posOfExpr(e *Expression) asmerr.Position {
	return asmerr.Position{Filename: p.filename, Line: e.Line, Column: e.Column}
}

func (p *Parser) isStatementBoundary(tt TokenType) bool {
	return tt == TokOp || tt == TokLabel || tt == TokEOF
}

// Parse runs the full parse, producing a RootNode with byte addresses
// assigned to every operation statement.
func (p *Parser) Parse() (*RootNode, error) {
	root := &RootNode{}
	byteCounter := 0

	for p.peek().Type != TokEOF {
		tok := p.advance()

		switch tok.Type {
		case TokLabel:
			stmt := &Statement{Kind: StmtLabel, Text: tok.Text, Line: tok.Line, Column: tok.Column, ByteAddr: byteCounter}
			exprs, err := p.parseOperandList()
			if err != nil {
				return nil, err
			}
			if len(exprs) > 1 {
				return nil, asmerr.New(p.posOf(tok), asmerr.KindParse,
					"label %q may have at most one body expression, got %d", tok.Text, len(exprs))
			}
			stmt.Children = exprs
			root.Statements = append(root.Statements, stmt)

		case TokOp:
			mnemonic := strings.ToLower(tok.Text)
			op, ok := isa.Lookup(mnemonic)
			if !ok {
				return nil, asmerr.New(p.posOf(tok), asmerr.KindParse, "unknown mnemonic %q", tok.Text)
			}
			stmt := &Statement{Kind: StmtOperation, Text: mnemonic, Line: tok.Line, Column: tok.Column, ByteAddr: byteCounter}
			exprs, err := p.parseOperandList()
			if err != nil {
				return nil, err
			}
			if len(exprs) != op.ParamCount() {
				return nil, asmerr.New(p.posOf(tok), asmerr.KindParse,
					"%s expects %d operand(s), got %d", op, op.ParamCount(), len(exprs))
			}
			stmt.Children = exprs
			byteCounter += op.ByteCount()
			root.Statements = append(root.Statements, stmt)

		default:
			return nil, asmerr.New(p.posOf(tok), asmerr.KindParse, "expected a label or operation, got %s", tok.Type)
		}
	}

	return root, nil
}

// parseOperandList consumes expression operands, separated by optional
// commas, until the next Op/Label/Eof statement boundary.
func (p *Parser) parseOperandList() ([]*Expression, error) {
	var exprs []*Expression
	for !p.isStatementBoundary(p.peek().Type) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.peek().Type == TokComma {
			p.advance()
		}
	}
	return exprs, nil
}

// parseExpression implements the operand-stack construction: tokens are
// pushed, in source order, onto a stack until the next Op/Comma/Label/Eof
// boundary, then folded into a right-leaning tree rooted at the
// top-of-stack Equation (if any).
func (p *Parser) parseExpression() (*Expression, error) {
	var stack []*Expression
	for {
		tok := p.advance()
		stack = append(stack, leafFor(tok))
		next := p.peek().Type
		if next == TokOp || next == TokComma || next == TokLabel || next == TokEOF {
			break
		}
	}
	return p.buildExpression(stack)
}

func leafFor(tok Token) *Expression {
	kind := ExprValue
	switch tok.Type {
	case TokDot:
		kind = ExprDot
	case TokIdentifier:
		kind = ExprLabelPtr
	case TokReg, TokPtrReg:
		kind = ExprRegister
	case TokPlus, TokMinus:
		kind = ExprEquation
	}
	return &Expression{Kind: kind, Text: tok.Text, Line: tok.Line, Column: tok.Column}
}

// prepend inserts exp at the front of children, preserving the
// left-to-right source order of a leader's operands even though
// buildExpression discovers them walking the stack top-down.
func prepend(children []*Expression, exp *Expression) []*Expression {
	return append([]*Expression{exp}, children...)
}

// buildExpression folds a source-ordered token stack into a tree. A
// single element is itself the expression. An odd-length stack with an
// Equation on top becomes the root; walking the remaining elements from
// most-recently-pushed to least, each non-equation becomes a child of the
// current leader, and each equation becomes the new leader (descending
// one level). Children are prepended rather than appended so each
// leader's two children land in source order, matching left-to-right
// postfix evaluation. Any other shape is a syntax error.
func (p *Parser) buildExpression(stack []*Expression) (*Expression, error) {
	n := len(stack)
	switch {
	case n == 1:
		return stack[0], nil
	case n%2 == 0:
		last := stack[n-1]
		return nil, asmerr.New(p.posOfExpr(last), asmerr.KindParse, "Unbalanced Arithmetic")
	default:
		top := stack[n-1]
		if top.Kind != ExprEquation {
			return nil, asmerr.New(p.posOfExpr(top), asmerr.KindParse, "Invalid Expression")
		}
		root := top
		leader := root
		lastKind := root.Kind
		for i := n - 2; i >= 0; i-- {
			exp := stack[i]
			if exp.Kind == ExprEquation {
				if lastKind == ExprEquation {
					return nil, asmerr.New(p.posOfExpr(exp), asmerr.KindParse, "Unexpected Arithmetic Symbol")
				}
				leader.Children = prepend(leader.Children, exp)
				leader = exp
			} else {
				leader.Children = prepend(leader.Children, exp)
			}
			lastKind = exp.Kind
		}
		return root, nil
	}
}
