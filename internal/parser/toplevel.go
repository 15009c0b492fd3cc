package parser

import (
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// parseTopLevelEntity dispatches one top-level production (§4.3),
// each implicitly terminated by the next top-level keyword or EOF.
func (p *Parser) parseTopLevelEntity() error {
	switch {
	case p.atKeyword("target"):
		return p.parseTargetClause()
	case p.atKeyword("source_filename"):
		return p.parseSourceFilename()
	case p.atKeyword("module"):
		return p.parseModuleAsm()
	case p.atKeyword("attributes"):
		return p.parseAttributeGroup()
	case p.atKeyword("declare"), p.atKeyword("define"):
		return p.parseFunction()
	case p.at(lexer.TokLocalVar):
		return p.parseIdentifiedTypeDef()
	case p.at(lexer.TokGlobalVar):
		return p.parseGlobalVariableDecl()
	case p.at(lexer.TokComdatVar):
		return p.parseComdatDef()
	case p.at(lexer.TokMetadataVar) && p.cur.IsNumericName:
		return p.parseNumericMetadataDef()
	case p.at(lexer.TokMetadataVar):
		return p.parseNamedMetadataDef()
	default:
		return p.errf("unexpected top-level token %s %q", p.cur.Type, p.cur.Value)
	}
}

func (p *Parser) parseTargetClause() error {
	p.advance()
	switch {
	case p.atKeyword("datalayout"):
		p.advance()
		if _, err := p.expect(lexer.TokEquals); err != nil {
			return err
		}
		s, err := p.expect(lexer.TokStringLit)
		if err != nil {
			return err
		}
		p.mod.TargetDatalayout = s.Value
		return nil
	case p.atKeyword("triple"):
		p.advance()
		if _, err := p.expect(lexer.TokEquals); err != nil {
			return err
		}
		s, err := p.expect(lexer.TokStringLit)
		if err != nil {
			return err
		}
		p.mod.TargetTriple = s.Value
		return nil
	default:
		return p.errf("expected 'datalayout' or 'triple' after 'target'")
	}
}

func (p *Parser) parseSourceFilename() error {
	p.advance()
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	s, err := p.expect(lexer.TokStringLit)
	if err != nil {
		return err
	}
	p.mod.SourceFilename = s.Value
	return nil
}

func (p *Parser) parseModuleAsm() error {
	p.advance()
	if err := p.expectKeyword("asm"); err != nil {
		return err
	}
	s, err := p.expect(lexer.TokStringLit)
	if err != nil {
		return err
	}
	p.mod.ModuleAsm = append(p.mod.ModuleAsm, s.Value)
	return nil
}

// parseAttributeGroup parses `attributes #N = { attr attr(val) ... }`.
func (p *Parser) parseAttributeGroup() error {
	p.advance()
	id, err := p.expect(lexer.TokAttrGroupID)
	if err != nil {
		return err
	}
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return err
	}
	var attrs []ir.FuncAttr
	for !p.at(lexer.TokRBrace) {
		fa, err := p.parseOneFuncAttr()
		if err != nil {
			return err
		}
		attrs = append(attrs, fa)
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return err
	}
	p.attrGroups[id.Value] = attrs
	return nil
}

func (p *Parser) parseOneFuncAttr() (ir.FuncAttr, error) {
	if p.at(lexer.TokStringLit) {
		key := p.cur.Value
		p.advance()
		if p.at(lexer.TokEquals) {
			p.advance()
			val, err := p.expect(lexer.TokStringLit)
			if err != nil {
				return ir.FuncAttr{}, err
			}
			return ir.FuncAttr{Key: key, Value: val.Value, HasValue: true}, nil
		}
		return ir.FuncAttr{Key: key}, nil
	}
	tok, err := p.expect(lexer.TokKeyword)
	if err != nil {
		return ir.FuncAttr{}, err
	}
	fa := ir.FuncAttr{Key: tok.Value}
	if p.at(lexer.TokEquals) {
		p.advance()
		val := p.cur
		p.advance()
		fa.Value = val.Value
		fa.HasValue = true
	} else if p.at(lexer.TokLParen) {
		p.advance()
		depth := 1
		for depth > 0 && !p.at(lexer.TokEOF) {
			if p.at(lexer.TokLParen) {
				depth++
			} else if p.at(lexer.TokRParen) {
				depth--
			}
			p.advance()
		}
	}
	return fa, nil
}

// parseIdentifiedTypeDef parses `%name = type <body|opaque>`.
func (p *Parser) parseIdentifiedTypeDef() error {
	nameTok := p.cur
	p.advance()
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	if err := p.expectKeyword("type"); err != nil {
		return err
	}
	if p.atKeyword("opaque") {
		p.advance()
		p.ctx.StructIdentified(nameTok.Value)
		p.mod.NamedStructOrder = append(p.mod.NamedStructOrder, nameTok.Value)
		return nil
	}
	packed := false
	var fields []ir.Type
	var err error
	if p.at(lexer.TokLess) {
		p.advance()
		fields, err = p.parseStructFieldList()
		if err != nil {
			return err
		}
		if _, err := p.expect(lexer.TokGreater); err != nil {
			return err
		}
		packed = true
	} else {
		fields, err = p.parseStructFieldList()
		if err != nil {
			return err
		}
	}
	if err := p.ctx.SetStructBody(nameTok.Value, fields, packed); err != nil {
		return p.errf("%v", err)
	}
	p.mod.NamedStructOrder = append(p.mod.NamedStructOrder, nameTok.Value)
	return nil
}

func (p *Parser) parseComdatDef() error {
	nameTok := p.cur
	p.advance()
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	if err := p.expectKeyword("comdat"); err != nil {
		return err
	}
	kindTok, err := p.expect(lexer.TokKeyword)
	if err != nil {
		return err
	}
	kind, ok := comdatKinds[kindTok.Value]
	if !ok {
		return p.errf("unknown comdat selection kind %q", kindTok.Value)
	}
	p.mod.Comdats[nameTok.Value] = &ir.Comdat{Name: nameTok.Value, Kind: kind}
	return nil
}

var comdatKinds = map[string]ir.ComdatKind{
	"any":          ir.ComdatAny,
	"exactmatch":   ir.ComdatExactMatch,
	"largest":      ir.ComdatLargest,
	"noduplicates": ir.ComdatNoDuplicates,
	"samesize":     ir.ComdatSameSize,
}

// parseGlobalVariableDecl parses `@name = <linkage...> global|constant
// <type> [initializer] [, ...]`. Non-global `@name = ...` productions
// (`alias`, `ifunc`) are not supported: parseGlobalVariable rejects
// them with a parse error.
func (p *Parser) parseGlobalVariableDecl() error {
	nameTok := p.cur
	p.advance()
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	return p.parseGlobalVariable(nameTok.Value)
}
