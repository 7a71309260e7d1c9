package parser

import (
	"github.com/GU-Student-Projects/CPSC326/ast"
	"github.com/GU-Student-Projects/CPSC326/lexer"
)

// binOpTokens are the tokens that can continue a flat Expr chain as its
// operator.
var binOpTokens = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true, lexer.TIMES: true, lexer.DIVIDE: true,
	lexer.AND: true, lexer.OR: true,
	lexer.EQUAL: true, lexer.NOT_EQUAL: true,
	lexer.LESS: true, lexer.LESS_EQ: true, lexer.GREATER: true, lexer.GREATER_EQ: true,
}

func (p *Parser) isBinOp() bool { return binOpTokens[p.curr.Type] }

var baseRValueTokens = map[lexer.TokenType]bool{
	lexer.INT_VAL: true, lexer.DOUBLE_VAL: true, lexer.BOOL_VAL: true, lexer.STRING_VAL: true,
}

// parseExpr parses one flat, right-associative expression: an optional
// leading `not`, a first term, and an optional (operator, rest)
// continuation. `not` is flattened onto the outermost Expr_ rather than
// wrapping a nested node, so its negation applies to the entire
// continuation chain that follows it, matching the reference parser's
// own flattening.
func (p *Parser) parseExpr() (*ast.Expr_, error) {
	var notOp bool
	var first ast.Term
	var op *lexer.Token
	var rest *ast.Expr_

	switch {
	case p.match(lexer.NOT):
		notOp = true
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		first, op, rest = inner.First, inner.Op, inner.Rest

	case p.match(lexer.LPAREN):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.match(lexer.RPAREN) {
			return nil, p.errorf("expecting an expression")
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN, "expecting )"); err != nil {
			return nil, err
		}
		if st, ok := inner.First.(*ast.SimpleTerm); ok && inner.Op == nil && inner.Rest == nil {
			first = st
		} else {
			first = &ast.ComplexTerm{ExprNode: inner}
		}

	default:
		if p.isBinOp() {
			return nil, p.errorf("expecting an expression")
		}
		rv, err := p.parseRValue()
		if err != nil {
			return nil, err
		}
		first = &ast.SimpleTerm{RValue: rv}
	}

	if p.isBinOp() {
		opTok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.match(lexer.SEMICOLON) {
			return nil, p.errorf("expecting an expression")
		}
		restExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		op = &opTok
		rest = restExpr
	}

	return &ast.Expr_{NotOp: notOp, First: first, Op: op, Rest: rest}, nil
}

// parseRValue parses a literal, `null`, a `new` expression, or an
// identifier-led call/variable-read.
func (p *Parser) parseRValue() (ast.Expr, error) {
	switch {
	case baseRValueTokens[p.curr.Type]:
		tok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.SimpleRValue{Literal: tok}, nil
	case p.match(lexer.NULL_VAL):
		tok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.SimpleRValue{Literal: tok}, nil
	case p.match(lexer.NEW):
		return p.parseNewRValue()
	case p.match(lexer.ID):
		tok := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.match(lexer.LPAREN) {
			return p.parseCallExprTail(tok)
		}
		return p.parseVarRValue(tok)
	default:
		return nil, p.errorf("expecting a value")
	}
}

// parseNewRValue parses `new ID(args)`, `new ID[n]`, or `new baseType[n]`.
func (p *Parser) parseNewRValue() (*ast.NewRValue, error) {
	tok := p.curr
	if _, err := p.eat(lexer.NEW, "expecting new"); err != nil {
		return nil, err
	}
	if p.match(lexer.ID) {
		typeName := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.match(lexer.LPAREN) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			var params []ast.Expr
			for !p.match(lexer.RPAREN) {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				params = append(params, e)
				if !p.match(lexer.RPAREN) {
					if _, err := p.eat(lexer.COMMA, "expecting ,"); err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.eat(lexer.RPAREN, "expecting )"); err != nil {
				return nil, err
			}
			return &ast.NewRValue{TypeName: typeName, StructParams: params, Token: tok}, nil
		}
		return p.parseNewArrayTail(typeName, tok)
	}
	if baseTypeTokens[p.curr.Type] {
		typeName := p.curr
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseNewArrayTail(typeName, tok)
	}
	return nil, p.errorf("expecting a base type or struct name")
}

func (p *Parser) parseNewArrayTail(typeName lexer.Token, tok lexer.Token) (*ast.NewRValue, error) {
	if _, err := p.eat(lexer.LBRACKET, "expecting ["); err != nil {
		return nil, err
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RBRACKET, "expecting ]"); err != nil {
		return nil, err
	}
	return &ast.NewRValue{TypeName: typeName, ArrayExpr: n, Token: tok}, nil
}

// parseVarRValue parses the `(['expr']|.ID(['expr'])?)*` continuation
// of a variable-read rooted at name, which has already been consumed.
func (p *Parser) parseVarRValue(name lexer.Token) (*ast.VarRValue, error) {
	path, err := p.parsePathContinuation(name, nil)
	if err != nil {
		return nil, err
	}
	return &ast.VarRValue{Path: path}, nil
}

// parsePathContinuation consumes a run of `[expr]` and `.ID` links
// following name, appending to path (which may already contain a root
// link). If path is still empty when a `.` is found, the bare name is
// first recorded as an unindexed link — this lets a var-read path like
// `a.b` record both `a` and `b`, while an lvalue whose root was already
// pushed by the caller does not duplicate it.
func (p *Parser) parsePathContinuation(name lexer.Token, path []ast.VarRef) ([]ast.VarRef, error) {
	for p.matchAny(lexer.LBRACKET, lexer.DOT) {
		if p.match(lexer.LBRACKET) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.RBRACKET, "expecting ]"); err != nil {
				return nil, err
			}
			path = append(path, ast.VarRef{VarName: name, ArrayExpr: idx})
			continue
		}
		if len(path) == 0 {
			path = append(path, ast.VarRef{VarName: name})
		}
		if err := p.advance(); err != nil { // eat '.'
			return nil, err
		}
		fieldName, err := p.eat(lexer.ID, "expecting field name")
		if err != nil {
			return nil, err
		}
		name = fieldName
		if p.match(lexer.LBRACKET) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.eat(lexer.RBRACKET, "expecting ]"); err != nil {
				return nil, err
			}
			path = append(path, ast.VarRef{VarName: name, ArrayExpr: idx})
		} else {
			path = append(path, ast.VarRef{VarName: name})
		}
	}
	if len(path) == 0 {
		path = append(path, ast.VarRef{VarName: name})
	}
	return path, nil
}

// parseCallExprTail parses the `(args)` tail of a call whose function
// name has already been consumed, recording a best-effort per-argument
// type tag for parity with the source toolchain's own bookkeeping (see
// ast.CallExpr's doc comment — this is never used for overload
// resolution).
func (p *Parser) parseCallExprTail(funName lexer.Token) (*ast.CallExpr, error) {
	if _, err := p.eat(lexer.LPAREN, "expecting ("); err != nil {
		return nil, err
	}
	var args []ast.Expr
	var argTypes []string
	for !p.match(lexer.RPAREN) {
		argTypes = append(argTypes, p.inferArgType())
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if !p.match(lexer.RPAREN) {
			if _, err := p.eat(lexer.COMMA, "expecting ,"); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.eat(lexer.RPAREN, "expecting )"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{FunName: funName, Args: args, ArgTypes: argTypes}, nil
}

// inferArgType is the parser's best-effort guess at an argument
// expression's type, used only for the ArgTypes bookkeeping field: an
// identifier is looked up first against the struct-instance tracking in
// structDefs (see recordBinding) and then against varBindings; a
// literal's type is immediate; a leading `not` is tagged "bool";
// anything else collapses to "expr".
func (p *Parser) inferArgType() string {
	switch p.curr.Type {
	case lexer.ID:
		for structName, instances := range p.structDefs {
			for _, v := range instances {
				if v == p.curr.Lexeme {
					return structName
				}
			}
		}
		if ty, ok := p.varBindings[p.curr.Lexeme]; ok {
			return ty
		}
		return "expr"
	case lexer.INT_VAL:
		return "int"
	case lexer.STRING_VAL:
		return "string"
	case lexer.DOUBLE_VAL:
		return "double"
	case lexer.BOOL_VAL:
		return "bool"
	case lexer.NOT:
		return "bool"
	default:
		return "expr"
	}
}
