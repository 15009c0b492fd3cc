// Package parser implements the hand-written recursive-descent parser
// over the LLVM textual IR token stream produced by internal/lexer,
// building an internal/ir.Module. Grounded on the teacher's
// RecursiveDescentParser (staticlang/grammar/parser.go): two-token
// lookahead via nextToken/expectToken, one parse* method per grammar
// production, errors reported through an injected ir.ErrorReporter.
package parser

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// Parser holds the whole of one parse's mutable state: the token
// cursor, the module under construction, and the per-function tables
// §4.3 requires (symbol table, anonymous-id counter, pending forward
// references, block-label table).
type Parser struct {
	lex      *lexer.Lexer
	ctx      *ir.Context
	reporter ir.ErrorReporter

	cur, peek lexer.Token

	mod *ir.Module

	// attrGroups holds `attributes #N = { ... }` definitions, resolved
	// against whichever function/call-site references #N.
	attrGroups map[string][]ir.FuncAttr

	// globalRefs is the module-wide forward-reference table for
	// `@name` globals, resolved at end of module (§4.3 "at end-of-module,
	// unresolved global refs or !Ns are errors").
	globalRefs map[string]*ir.ForwardRef

	// Per-function state, reset by resetFunctionState at the start of
	// each `define` body.
	locals          map[string]ir.Value
	localForwardRef map[string]*ir.ForwardRef
	blockLabels     map[string]*ir.BasicBlock
	nextAnonID      int
	curFunc         *ir.Function
	curBlock        *ir.BasicBlock
}

func New(filename, source string, ctx *ir.Context, reporter ir.ErrorReporter) *Parser {
	p := &Parser{
		lex:        lexer.New(filename, source),
		ctx:        ctx,
		reporter:   reporter,
		attrGroups: make(map[string][]ir.FuncAttr),
		globalRefs: make(map[string]*ir.ForwardRef),
	}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur.Type == tt }

func (p *Parser) atKeyword(kw string) bool {
	return p.cur.Type == lexer.TokKeyword && p.cur.Value == kw
}

func (p *Parser) peekAtKeyword(kw string) bool {
	return p.peek.Type == lexer.TokKeyword && p.peek.Value == kw
}

func (p *Parser) errf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	ce := ir.CompilerError{
		Type:     ir.ParseError,
		Message:  msg,
		Location: ir.PointRange(p.cur.Location),
	}
	if p.reporter != nil {
		p.reporter.ReportError(ce)
	}
	return errors.Wrap(ce, "parse error")
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != tt {
		return lexer.Token{}, p.errf("expected %s, got %s %q", tt, p.cur.Type, p.cur.Value)
	}
	t := p.cur
	p.advance()
	return t, nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return p.errf("expected keyword %q, got %s %q", kw, p.cur.Type, p.cur.Value)
	}
	p.advance()
	return nil
}

// ParseModule consumes the entire token stream and returns the built
// Module, or the first error encountered (§7 "parse errors are
// fail-fast: the first malformed construct aborts the parse").
func (p *Parser) ParseModule(name string) (*ir.Module, error) {
	p.mod = ir.NewModule(name, p.ctx)
	for !p.at(lexer.TokEOF) {
		if err := p.parseTopLevelEntity(); err != nil {
			return nil, err
		}
	}
	if err := p.checkUnresolvedGlobals(); err != nil {
		return nil, err
	}
	return p.mod, nil
}

func (p *Parser) checkUnresolvedGlobals() error {
	for name, ref := range p.globalRefs {
		if len(ref.Uses()) > 0 {
			return p.errf("unresolved forward reference to global @%s", name)
		}
	}
	for id, node := range p.mod.MetadataByID {
		if node.Resolved == nil {
			return p.errf("unresolved forward reference to metadata !%d", id)
		}
	}
	return nil
}
