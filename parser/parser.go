// Package parser implements a recursive-descent parser that builds an
// ast.Program from a lexer.Lexer's token stream.
//
// The grammar (spec §4.2) is intentionally flat: expressions never
// discover or encode operator precedence at parse time. Grouping is
// explicit via parentheses only, so later passes must not assume any
// precedence beyond what was written.
package parser

import (
	"github.com/GU-Student-Projects/CPSC326/ast"
	"github.com/GU-Student-Projects/CPSC326/lexer"
)

// baseTypeTokens are the type-name tokens usable directly as a
// data_type base type (excluding struct names, which are plain IDs).
var baseTypeTokens = map[lexer.TokenType]bool{
	lexer.INT_TYPE:    true,
	lexer.DOUBLE_TYPE: true,
	lexer.BOOL_TYPE:   true,
	lexer.STRING_TYPE: true,
}

// Parser holds the token-stream position and the incidental bookkeeping
// maps spec §4.2 calls out: struct_defs (struct name -> field names)
// and var_bindings (variable name -> declared type-name lexeme). Both
// are retained for parity with the source toolchain's own bookkeeping;
// neither is used for overload resolution (see check.Checker, which
// computes exact mangled names from real types).
type Parser struct {
	lex  *lexer.Lexer
	curr lexer.Token
	next lexer.Token

	structDefs   map[string][]string
	varBindings  map[string]string
}

// New creates a Parser over lex, primed with two tokens of lookahead.
// Comment tokens are filtered out transparently.
func New(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{
		lex:         lex,
		structDefs:  map[string][]string{},
		varBindings: map[string]string{},
	}
	if err := p.prime(); err != nil {
		return nil, err
	}
	return p, nil
}

// prime fills curr and next, skipping comments.
func (p *Parser) prime() error {
	tok, err := p.nextNonComment()
	if err != nil {
		return err
	}
	p.curr = tok
	tok, err = p.nextNonComment()
	if err != nil {
		return err
	}
	p.next = tok
	return nil
}

func (p *Parser) nextNonComment() (lexer.Token, error) {
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			return lexer.Token{}, err
		}
		if tok.Type != lexer.COMMENT {
			return tok, nil
		}
	}
}

// advance consumes curr and pulls the next non-comment token into it.
func (p *Parser) advance() error {
	p.curr = p.next
	tok, err := p.nextNonComment()
	if err != nil {
		return err
	}
	p.next = tok
	return nil
}

// match reports whether curr is of the given kind.
func (p *Parser) match(kind lexer.TokenType) bool {
	return p.curr.Type == kind
}

// matchAny reports whether curr is any of the given kinds.
func (p *Parser) matchAny(kinds ...lexer.TokenType) bool {
	for _, k := range kinds {
		if p.curr.Type == k {
			return true
		}
	}
	return false
}

// eat consumes curr if it matches kind, else fails with a ParseError.
func (p *Parser) eat(kind lexer.TokenType, message string) (lexer.Token, error) {
	if !p.match(kind) {
		return lexer.Token{}, p.errorf(message)
	}
	tok := p.curr
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

func (p *Parser) errorf(message string) error {
	return &Error{Msg: message + " found " + p.curr.Lexeme, Line: p.curr.Line, Column: p.curr.Column}
}

// isDataTypeStart reports whether curr can begin a data_type: the
// `array` marker, a base type keyword, or an identifier (a struct name).
func (p *Parser) isDataTypeStart() bool {
	return baseTypeTokens[p.curr.Type] || p.curr.Type == lexer.ID || p.curr.Type == lexer.ARRAY
}

// Parse consumes the full token stream and returns the Program. Struct
// and function definitions may appear in any order and are collected
// into their respective slices.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.match(lexer.EOS) {
		if p.match(lexer.STRUCT) {
			sd, err := p.parseStructDef()
			if err != nil {
				return nil, err
			}
			prog.StructDefs = append(prog.StructDefs, sd)
			continue
		}
		fd, err := p.parseFunDef()
		if err != nil {
			return nil, err
		}
		prog.FunDefs = append(prog.FunDefs, fd)
	}
	return prog, nil
}

// parseDataType parses an optional leading `array` marker followed by a
// base-type keyword or a struct-name identifier.
func (p *Parser) parseDataType() (ast.DataType, error) {
	isArray := false
	if p.match(lexer.ARRAY) {
		isArray = true
		if err := p.advance(); err != nil {
			return ast.DataType{}, err
		}
	}
	tok := p.curr
	if baseTypeTokens[tok.Type] || tok.Type == lexer.ID {
		if err := p.advance(); err != nil {
			return ast.DataType{}, err
		}
		return ast.DataType{Token: tok, IsArray: isArray, TypeName: tok.Lexeme}, nil
	}
	return ast.DataType{}, p.errorf("expecting a type name")
}

// parseStructDef parses `struct ID { fields }`.
func (p *Parser) parseStructDef() (*ast.StructDef, error) {
	if _, err := p.eat(lexer.STRUCT, "expecting struct"); err != nil {
		return nil, err
	}
	name, err := p.eat(lexer.ID, "expecting struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LBRACE, "expecting {"); err != nil {
		return nil, err
	}
	p.structDefs[name.Lexeme] = nil
	var fields []ast.VarDef
	for p.isDataTypeStart() {
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		varName, err := p.eat(lexer.ID, "expecting field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.SEMICOLON, "expecting ;"); err != nil {
			return nil, err
		}
		fields = append(fields, ast.VarDef{DataType: dt, VarName: varName})
		p.structDefs[name.Lexeme] = append(p.structDefs[name.Lexeme], varName.Lexeme)
	}
	if _, err := p.eat(lexer.RBRACE, "expecting }"); err != nil {
		return nil, err
	}
	return &ast.StructDef{Name: name, Fields: fields}, nil
}

// recordBinding updates the bookkeeping maps used for call-site argument
// type inference (see parser_expressions.go's inferArgType): a variable
// declared with a struct type is recorded as an instance of that
// struct (structDefs[typeName] grows to include its variable names, not
// just its field names — the call-site heuristic conflates the two,
// matching the source toolchain exactly); anything else is recorded in
// varBindings by its base/array type name.
func (p *Parser) recordBinding(typeName, varName string) {
	if _, isStruct := p.structDefs[typeName]; isStruct {
		p.structDefs[typeName] = append(p.structDefs[typeName], varName)
		return
	}
	p.varBindings[varName] = typeName
}

// parseFunDef parses `(data_type|void) ID ( params ) { stmts }`.
func (p *Parser) parseFunDef() (*ast.FunDef, error) {
	var retType ast.DataType
	if p.match(lexer.VOID_TYPE) {
		retType = ast.DataType{Token: p.curr, TypeName: "void"}
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		retType = dt
	}
	name, err := p.eat(lexer.ID, "expecting function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN, "expecting ("); err != nil {
		return nil, err
	}
	var params []ast.VarDef
	if !p.match(lexer.RPAREN) {
		for {
			dt, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			pname, err := p.eat(lexer.ID, "expecting parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.VarDef{DataType: dt, VarName: pname})
			p.recordBinding(dt.TypeName, pname.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.eat(lexer.RPAREN, "expecting )"); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LBRACE, "expecting {"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RBRACE, "expecting }"); err != nil {
		return nil, err
	}
	return &ast.FunDef{ReturnType: retType, Name: name, Params: params, Stmts: stmts}, nil
}
