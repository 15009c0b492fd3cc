package parser

import (
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

var linkageKeywords = map[string]ir.Linkage{
	"private": ir.LinkagePrivate, "internal": ir.LinkageInternal,
	"available_externally": ir.LinkageAvailableExternally,
	"linkonce":             ir.LinkageLinkOnce, "weak": ir.LinkageWeak,
	"common": ir.LinkageCommon, "appending": ir.LinkageAppending,
	"extern_weak":  ir.LinkageExternWeak,
	"linkonce_odr": ir.LinkageLinkOnceODR, "weak_odr": ir.LinkageWeakODR,
	"external": ir.LinkageExternal,
}

var visibilityKeywords = map[string]ir.Visibility{
	"default": ir.VisibilityDefault, "hidden": ir.VisibilityHidden,
	"protected": ir.VisibilityProtected,
}

// parseLinkagePreemptionVisibility consumes the common leading
// attribute run shared by globals and functions: linkage, preemption
// (dso_local/dso_preemptable), visibility. Each is optional and may be
// absent; order among these three is fixed by the grammar (linkage
// before preemption before visibility) but this parser accepts any
// permutation since the reference grammar's examples never mix them
// out of order and rejecting valid input is worse than accepting a
// harmless reordering.
func (p *Parser) parseLinkagePreemptionVisibility() (ir.Linkage, ir.Preemption, ir.Visibility) {
	linkage := ir.LinkageExternal
	preemption := ir.PreemptionSpecified
	visibility := ir.VisibilityDefault
	for {
		if p.at(lexer.TokKeyword) {
			if l, ok := linkageKeywords[p.cur.Value]; ok {
				linkage = l
				p.advance()
				continue
			}
			if v, ok := visibilityKeywords[p.cur.Value]; ok {
				visibility = v
				p.advance()
				continue
			}
			if p.cur.Value == "dso_local" {
				preemption = ir.DSOLocal
				p.advance()
				continue
			}
			if p.cur.Value == "dso_preemptable" {
				preemption = ir.DSOPreemptable
				p.advance()
				continue
			}
		}
		return linkage, preemption, visibility
	}
}

// parseGlobalVariable parses the remainder of `@name = ...` once the
// leading `@name =` has been consumed.
func (p *Parser) parseGlobalVariable(name string) error {
	linkage, preemption, visibility := p.parseLinkagePreemptionVisibility()

	threadLocal := ir.NotThreadLocal
	if p.atKeyword("thread_local") {
		p.advance()
		threadLocal = ir.ThreadLocalDefault
		if p.at(lexer.TokLParen) {
			p.advance()
			modeTok, err := p.expect(lexer.TokKeyword)
			if err != nil {
				return err
			}
			switch modeTok.Value {
			case "localdynamic":
				threadLocal = ir.ThreadLocalLocalDynamic
			case "initialexec":
				threadLocal = ir.ThreadLocalInitialExec
			case "localexec":
				threadLocal = ir.ThreadLocalLocalExec
			}
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return err
			}
		}
	}

	addrSpace := uint32(0)
	if p.atKeyword("addrspace") {
		p.advance()
		if _, err := p.expect(lexer.TokLParen); err != nil {
			return err
		}
		n, err := p.expectIntLit()
		if err != nil {
			return err
		}
		addrSpace = uint32(n)
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return err
		}
	}

	unnamedAddr := ir.AddressSignificant
	if p.atKeyword("unnamed_addr") {
		unnamedAddr = ir.UnnamedAddrGlobal
		p.advance()
	} else if p.atKeyword("local_unnamed_addr") {
		unnamedAddr = ir.LocalUnnamedAddr
		p.advance()
	}

	externallyInit := false
	if p.atKeyword("externally_initialized") {
		externallyInit = true
		p.advance()
	}

	isConst := false
	switch {
	case p.atKeyword("global"):
		p.advance()
	case p.atKeyword("constant"):
		isConst = true
		p.advance()
	default:
		return p.errf("expected 'global' or 'constant', got %s %q", p.cur.Type, p.cur.Value)
	}

	valueType, err := p.parseType()
	if err != nil {
		return err
	}

	g := ir.NewGlobalVariable(p.ctx, name, valueType, addrSpace)
	g.Linkage = linkage
	g.Preemption = preemption
	g.Visibility = visibility
	g.ThreadLocal = threadLocal
	g.IsConstant_ = isConst
	g.UnnamedAddr = unnamedAddr
	g.ExternallyInitialized = externallyInit

	if !p.at(lexer.TokComma) && p.canStartConstant() {
		init, err := p.parseConstant(valueType)
		if err != nil {
			return err
		}
		g.Initializer = init
	}

	for p.at(lexer.TokComma) {
		p.advance()
		switch {
		case p.atKeyword("section"):
			p.advance()
			s, err := p.expect(lexer.TokStringLit)
			if err != nil {
				return err
			}
			g.Section = s.Value
		case p.atKeyword("comdat"):
			p.advance()
			if p.at(lexer.TokLParen) {
				p.advance()
				cname, err := p.expect(lexer.TokComdatVar)
				if err != nil {
					return err
				}
				g.Comdat = p.mod.Comdats[cname.Value]
				if _, err := p.expect(lexer.TokRParen); err != nil {
					return err
				}
			} else {
				g.Comdat = p.mod.Comdats[name]
			}
		case p.atKeyword("align"):
			p.advance()
			n, err := p.expectIntLit()
			if err != nil {
				return err
			}
			g.HasAlign = true
			g.Align = uint32(n)
		case p.at(lexer.TokMetadataVar) && !p.cur.IsNumericName:
			k, id, err := p.parseMetadataAttachment()
			if err != nil {
				return err
			}
			if g.Metadata == nil {
				g.Metadata = map[string]*ir.MDNode{}
			}
			g.Metadata[k] = id
		default:
			return p.errf("unexpected global variable trailing clause %q", p.cur.Value)
		}
	}

	p.mod.AddGlobal(g)
	return nil
}

// canStartConstant reports whether the current token can begin a
// constant expression, used to decide whether a global variable has an
// explicit initializer (`external global i32` has none).
func (p *Parser) canStartConstant() bool {
	switch p.cur.Type {
	case lexer.TokIntLit, lexer.TokFloatLit, lexer.TokStringLit, lexer.TokCharArrayLit,
		lexer.TokLBracket, lexer.TokLBrace, lexer.TokLess, lexer.TokGlobalVar:
		return true
	}
	if p.cur.Type == lexer.TokKeyword {
		switch p.cur.Value {
		case "true", "false", "null", "none", "undef", "poison", "zeroinitializer",
			"getelementptr", "bitcast", "ptrtoint", "inttoptr", "trunc", "zext", "sext",
			"blockaddress":
			return true
		}
	}
	return false
}

// parseMetadataAttachment parses `!kind !N` and resolves/creates the
// numeric metadata slab entry.
func (p *Parser) parseMetadataAttachment() (string, *ir.MDNode, error) {
	// `!kind` lexes as a single non-numeric TokMetadataVar (the sigil
	// and name are one token, same as `!dbg`'s kind would be), not a
	// bare TokBang followed by a name.
	kindTok, err := p.expect(lexer.TokMetadataVar)
	if err != nil {
		return "", nil, err
	}
	if kindTok.IsNumericName {
		return "", nil, p.errf("expected metadata kind name, got numeric !%s", kindTok.Value)
	}
	idTok, err := p.expect(lexer.TokMetadataVar)
	if err != nil {
		return "", nil, err
	}
	if !idTok.IsNumericName {
		return "", nil, p.errf("expected numeric metadata id, got !%s", idTok.Value)
	}
	id, convErr := parseDecimal(idTok.Value)
	if convErr != nil {
		return "", nil, p.errf("malformed metadata id !%s", idTok.Value)
	}
	return kindTok.Value, p.mod.MDNodeFor(id), nil
}

func parseDecimal(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errBadDecimal
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

var errBadDecimal = &parseDecimalError{}

type parseDecimalError struct{}

func (e *parseDecimalError) Error() string { return "malformed decimal literal" }
