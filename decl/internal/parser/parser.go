package parser

import (
	"strconv"
	"strings"

	"github.com/wippyai/bitpack/decl/internal/token"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/schema"
)

// KeywordStruct opens a declaration.
const KeywordStruct = "struct"

type Parser struct {
	seen   map[string]int
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens: tokens,
		seen:   make(map[string]int),
	}
}

// Parse reads every struct declaration. Widths are taken as written; range
// and name checks are left to draft validation.
func (p *Parser) Parse() ([]*schema.Draft, error) {
	var drafts []*schema.Draft
	for p.peek() != nil {
		d, err := p.parseStruct()
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 1
	}
	return p.tokens[len(p.tokens)-1].Line
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, errors.Syntax(p.lastLine(), "expected %v, got end of input", typ)
	}
	if t.Type != typ {
		return nil, errors.Syntax(t.Line, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *Parser) parseStruct() (*schema.Draft, error) {
	kw, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if kw.Value != KeywordStruct {
		return nil, errors.Syntax(kw.Line, "expected %q, got %q", KeywordStruct, kw.Value)
	}

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if prev, dup := p.seen[name.Value]; dup {
		return nil, errors.Syntax(name.Line, "struct %s already declared on line %d", name.Value, prev)
	}
	p.seen[name.Value] = name.Line

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	d := schema.NewDraft(name.Value)
	d.Line = kw.Line
	for {
		t := p.peek()
		if t == nil {
			return nil, errors.Syntax(p.lastLine(), "unterminated struct %s", name.Value)
		}
		if t.Type == token.RBrace {
			p.next()
			return d, nil
		}

		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, f)

		// Fields are comma separated; a trailing comma is allowed.
		t = p.peek()
		if t != nil && t.Type == token.Comma {
			p.next()
			continue
		}
		if t != nil && t.Type != token.RBrace {
			return nil, errors.Syntax(t.Line, "expected ',' or '}' after field %s, got %q", f.Name, t.Value)
		}
	}
}

func (p *Parser) parseField() (schema.Field, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return schema.Field{}, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return schema.Field{}, err
	}
	typ, err := p.expect(token.Ident)
	if err != nil {
		return schema.Field{}, err
	}
	width, err := parseWidth(typ)
	if err != nil {
		return schema.Field{}, err
	}
	return schema.Field{Name: name.Value, Width: width}, nil
}

// parseWidth reads a uN type name.
func parseWidth(t *token.Token) (int, error) {
	digits, ok := strings.CutPrefix(t.Value, "u")
	if !ok || digits == "" {
		return 0, errors.Syntax(t.Line, "expected unsigned type uN, got %q", t.Value)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errors.Syntax(t.Line, "expected unsigned type uN, got %q", t.Value)
		}
	}
	width, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errors.Syntax(t.Line, "width of %q out of range", t.Value)
	}
	return width, nil
}
