package parser

import (
	"strconv"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// parseType parses one type, then greedily consumes trailing `*`
// (pointer) and `addrspace(N)` clauses and `[N x T]`/`<N x T>`
// aggregate wrappers are handled by their own productions below.
// Typed-pointer syntax (`i32 addrspace(1)*`) is accepted and then
// normalized to an opaque ir.PointerType carrying only the address
// space, per §9 Open Question (c).
func (p *Parser) parseType() (ir.Type, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	for {
		addrSpace := uint32(0)
		if p.atKeyword("addrspace") {
			p.advance()
			if _, err := p.expect(lexer.TokLParen); err != nil {
				return nil, err
			}
			n, err := p.expectIntLit()
			if err != nil {
				return nil, err
			}
			addrSpace = uint32(n)
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return nil, err
			}
		}
		if p.at(lexer.TokStar) {
			p.advance()
			base = p.ctx.Pointer(addrSpace)
			continue
		}
		if addrSpace != 0 {
			return nil, p.errf("addrspace(%d) must be followed by '*'", addrSpace)
		}
		return base, nil
	}
}

func (p *Parser) expectIntLit() (int64, error) {
	tok, err := p.expect(lexer.TokIntLit)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.ParseInt(tok.Value, 10, 64)
	if convErr != nil {
		return 0, p.errf("malformed integer literal %q: %v", tok.Value, convErr)
	}
	return n, nil
}

func (p *Parser) parseBaseType() (ir.Type, error) {
	switch {
	case p.at(lexer.TokIntType):
		bits, err := strconv.Atoi(p.cur.Value)
		if err != nil {
			return nil, p.errf("malformed integer type i%s", p.cur.Value)
		}
		p.advance()
		t, err := p.ctx.IntegerChecked(uint32(bits))
		if err != nil {
			return nil, p.errf("%v", err)
		}
		return t, nil

	case p.atKeyword("void"):
		p.advance()
		return p.ctx.VoidType(), nil
	case p.atKeyword("label"):
		p.advance()
		return p.ctx.LabelType(), nil
	case p.atKeyword("token"):
		p.advance()
		return p.ctx.TokenTy(), nil
	case p.atKeyword("metadata"):
		p.advance()
		return p.ctx.MetadataTy(), nil
	case p.atKeyword("half"):
		p.advance()
		return p.ctx.Float(ir.HalfKind), nil
	case p.atKeyword("bfloat"):
		p.advance()
		return p.ctx.Float(ir.BFloatKind), nil
	case p.atKeyword("float"):
		p.advance()
		return p.ctx.Float(ir.FloatKind), nil
	case p.atKeyword("double"):
		p.advance()
		return p.ctx.Float(ir.DoubleKind), nil
	case p.atKeyword("fp128"):
		p.advance()
		return p.ctx.Float(ir.FP128Kind), nil
	case p.atKeyword("x86_fp80"):
		p.advance()
		return p.ctx.Float(ir.X86FP80Kind), nil
	case p.atKeyword("ppc_fp128"):
		p.advance()
		return p.ctx.Float(ir.PPCFP128Kind), nil
	case p.atKeyword("x86_amx"):
		p.advance()
		return p.ctx.X86AmxType(), nil
	case p.atKeyword("ptr"):
		p.advance()
		if p.atKeyword("addrspace") {
			p.advance()
			if _, err := p.expect(lexer.TokLParen); err != nil {
				return nil, err
			}
			n, err := p.expectIntLit()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return nil, err
			}
			return p.ctx.Pointer(uint32(n)), nil
		}
		return p.ctx.Pointer(0), nil

	case p.at(lexer.TokLBracket):
		return p.parseArrayType()
	case p.at(lexer.TokLess):
		return p.parseVectorOrPackedStructType()
	case p.at(lexer.TokLBrace):
		return p.parseLiteralStructType()
	case p.at(lexer.TokLocalVar):
		name := p.cur.Value
		p.advance()
		return p.ctx.StructIdentified(name), nil
	case p.at(lexer.TokLParen):
		return p.parseFunctionType(nil)

	default:
		return nil, p.errf("expected a type, got %s %q", p.cur.Type, p.cur.Value)
	}
}

func (p *Parser) parseArrayType() (ir.Type, error) {
	if _, err := p.expect(lexer.TokLBracket); err != nil {
		return nil, err
	}
	n, err := p.expectIntLit()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("x"); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return p.ctx.Array(elem, uint64(n)), nil
}

// parseVectorOrPackedStructType handles `<N x T>` and `<{ ... }>`
// (packed literal struct).
func (p *Parser) parseVectorOrPackedStructType() (ir.Type, error) {
	if _, err := p.expect(lexer.TokLess); err != nil {
		return nil, err
	}
	if p.at(lexer.TokLBrace) {
		st, err := p.parseStructFieldList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokGreater); err != nil {
			return nil, err
		}
		return p.ctx.StructLiteral(st, true), nil
	}
	scalable := false
	if p.atKeyword("ptx_device") {
		// unreachable guard; scalable vectors use `vscale x` keyword
	}
	if p.cur.Type == lexer.TokIdentifier && p.cur.Value == "vscale" {
		scalable = true
		p.advance()
		if err := p.expectKeyword("x"); err != nil {
			return nil, err
		}
	}
	n, err := p.expectIntLit()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("x"); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokGreater); err != nil {
		return nil, err
	}
	return p.ctx.Vector(elem, uint64(n), scalable), nil
}

func (p *Parser) parseLiteralStructType() (ir.Type, error) {
	fields, err := p.parseStructFieldList()
	if err != nil {
		return nil, err
	}
	return p.ctx.StructLiteral(fields, false), nil
}

func (p *Parser) parseStructFieldList() ([]ir.Type, error) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var fields []ir.Type
	if !p.at(lexer.TokRBrace) {
		for {
			f, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseFunctionType parses `(paramty, ...)` after ret has already been
// parsed (ret may be nil when called from parseBaseType's bare
// `(...)` pointer-call-signature context, in which case the caller
// fills Ret in afterward).
func (p *Parser) parseFunctionType(ret ir.Type) (ir.Type, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var params []ir.Type
	vararg := false
	if !p.at(lexer.TokRParen) {
		for {
			if p.at(lexer.TokEllipsis) {
				p.advance()
				vararg = true
				break
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.skipParamAttrsAndName(); err != nil {
				return nil, err
			}
			params = append(params, t)
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return p.ctx.Function(ret, params, vararg), nil
}

// skipParamAttrsAndName consumes the attribute run (with any type/int
// operands) and an optional trailing `%name` after a parameter type,
// used when a bare function-type signature is parsed inline (e.g. a
// `call` pointer-call-form signature) rather than through
// parseParameterList.
func (p *Parser) skipParamAttrsAndName() ([]ir.Attribute, error) {
	attrs, err := p.parseParamAttrList()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.TokLocalVar) {
		p.advance()
	}
	return attrs, nil
}
