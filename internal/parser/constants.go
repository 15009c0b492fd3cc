package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// parseConstant parses a constant of the given (already-parsed) type:
// integer/float literals, null/none/undef/poison/zeroinitializer,
// aggregate literals, `c"..."` byte arrays, and @-referenced global
// constants (including not-yet-defined ones, which get a forward-ref
// placeholder exactly like any other global use).
func (p *Parser) parseConstant(t ir.Type) (ir.Constant, error) {
	switch {
	case p.at(lexer.TokIntLit):
		return p.parseIntConstant(t)
	case p.at(lexer.TokFloatLit):
		return p.parseFloatConstant(t)
	case p.atKeyword("true"):
		p.advance()
		return ir.NewConstantInt(t, big.NewInt(1)), nil
	case p.atKeyword("false"):
		p.advance()
		return ir.NewConstantInt(t, big.NewInt(0)), nil
	case p.atKeyword("null"):
		p.advance()
		return ir.NewConstantNull(t), nil
	case p.atKeyword("none"):
		p.advance()
		return ir.NewConstantNull(t), nil
	case p.atKeyword("undef"):
		p.advance()
		return ir.NewConstantUndef(t), nil
	case p.atKeyword("poison"):
		p.advance()
		return ir.NewConstantPoison(t), nil
	case p.atKeyword("zeroinitializer"):
		p.advance()
		return ir.NewConstantZeroInitializer(t), nil
	case p.at(lexer.TokCharArrayLit):
		tok := p.cur
		p.advance()
		return ir.NewConstantDataArray(t, []byte(tok.Value)), nil
	case p.at(lexer.TokLBracket), p.at(lexer.TokLBrace), p.at(lexer.TokLess):
		return p.parseAggregateConstant(t)
	case p.at(lexer.TokGlobalVar):
		return p.parseGlobalConstantRef(t)
	case p.atKeyword("getelementptr"), p.atKeyword("bitcast"), p.atKeyword("ptrtoint"),
		p.atKeyword("inttoptr"), p.atKeyword("trunc"), p.atKeyword("zext"), p.atKeyword("sext"):
		return p.parseConstantExpr(t)
	case p.atKeyword("blockaddress"):
		return p.parseBlockAddress(t)
	default:
		return nil, p.errf("expected a constant, got %s %q", p.cur.Type, p.cur.Value)
	}
}

// parseIntConstant handles both ordinary decimal integers and a
// negative literal such as `-2147483648`, whose minus sign is already
// folded into the lexer's INT_LIT text (§8 "exact-constant" scenario).
func (p *Parser) parseIntConstant(t ir.Type) (ir.Constant, error) {
	tok := p.cur
	p.advance()
	n, ok := new(big.Int).SetString(tok.Value, 10)
	if !ok {
		return nil, p.errf("malformed integer constant %q", tok.Value)
	}
	return ir.NewConstantInt(t, n), nil
}

// parseFloatConstant decodes a plain decimal float or one of the hex
// encodings (`0x`/`0xH`/`0xK`/`0xL`/`0xM`) into raw IEEE bit patterns.
func (p *Parser) parseFloatConstant(t ir.Type) (ir.Constant, error) {
	tok := p.cur
	p.advance()
	if strings.HasPrefix(tok.Value, "0x") || strings.HasPrefix(tok.Value, "-0x") {
		neg := strings.HasPrefix(tok.Value, "-")
		s := strings.TrimPrefix(tok.Value, "-")
		s = strings.TrimPrefix(s, "0x")
		for len(s) > 0 && (s[0] == 'H' || s[0] == 'K' || s[0] == 'L' || s[0] == 'M') {
			s = s[1:]
		}
		lo, hi := splitHexBits(s)
		if neg {
			hi |= 1 << 63
		}
		return ir.NewConstantFP(t, lo, hi), nil
	}
	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return nil, p.errf("malformed float constant %q: %v", tok.Value, err)
	}
	return ir.NewConstantFP(t, math.Float64bits(f), 0), nil
}

// splitHexBits decodes a hex digit string into low/high 64-bit halves,
// low bits first (rightmost digits), for formats wider than 64 bits
// (x86_fp80's 20 digits, fp128/ppc_fp128's 32).
func splitHexBits(s string) (lo, hi uint64) {
	if len(s) <= 16 {
		v, _ := strconv.ParseUint(s, 16, 64)
		return v, 0
	}
	loPart := s[len(s)-16:]
	hiPart := s[:len(s)-16]
	loVal, _ := strconv.ParseUint(loPart, 16, 64)
	hiVal, _ := strconv.ParseUint(hiPart, 16, 64)
	return loVal, hiVal
}

func (p *Parser) parseAggregateConstant(t ir.Type) (ir.Constant, error) {
	var open, closeTok lexer.TokenType
	switch {
	case p.at(lexer.TokLBracket):
		open, closeTok = lexer.TokLBracket, lexer.TokRBracket
	case p.at(lexer.TokLBrace):
		open, closeTok = lexer.TokLBrace, lexer.TokRBrace
	default:
		open, closeTok = lexer.TokLess, lexer.TokGreater
	}
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var elems []ir.Constant
	if !p.at(closeTok) {
		for {
			elemTy, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elem, err := p.parseConstant(elemTy)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(closeTok); err != nil {
		return nil, err
	}
	return ir.NewConstantAggregate(t, elems), nil
}

func (p *Parser) parseGlobalConstantRef(expected ir.Type) (ir.Constant, error) {
	name := p.cur.Value
	p.advance()
	if f, ok := p.mod.GetFunction(name); ok {
		return f, nil
	}
	if g, ok := p.mod.GetGlobal(name); ok {
		return g, nil
	}
	if ref, ok := p.globalRefs[name]; ok {
		return ref, nil
	}
	ref := ir.NewForwardRef("global", p.ctx.Pointer(0), name)
	p.globalRefs[name] = ref
	return ref, nil
}

var constExprOps = map[string]ir.ConstExprOp{
	"getelementptr": ir.CEGetElementPtr,
	"bitcast":       ir.CEBitCast,
	"ptrtoint":      ir.CEPtrToInt,
	"inttoptr":      ir.CEIntToPtr,
	"trunc":         ir.CETrunc,
	"zext":          ir.CEZExt,
	"sext":          ir.CESExt,
}

// parseConstantExpr handles the subset of constant expressions the
// parser must recognise in initializer position (getelementptr,
// casts); no constant folding is performed — operator and operands are
// recorded faithfully for the verifier and any downstream consumer.
func (p *Parser) parseConstantExpr(resultTy ir.Type) (ir.Constant, error) {
	opName := p.cur.Value
	p.advance()
	op, ok := constExprOps[opName]
	if !ok {
		return nil, p.errf("unsupported constant expression %q", opName)
	}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	inBounds := false
	if opName == "getelementptr" && p.atKeyword("inbounds") {
		inBounds = true
		p.advance()
	}
	var srcTy ir.Type
	if opName == "getelementptr" {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		srcTy = t
		if _, err := p.expect(lexer.TokComma); err != nil {
			return nil, err
		}
	}
	var operands []ir.Value
	for {
		opTy, err := p.parseType()
		if err != nil {
			return nil, err
		}
		opVal, err := p.parseConstant(opTy)
		if err != nil {
			return nil, err
		}
		operands = append(operands, opVal)
		if p.at(lexer.TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	ce := ir.NewConstantExpr(resultTy, op, operands)
	ce.GEPSourceType = srcTy
	ce.InBounds = inBounds
	return ce, nil
}

func (p *Parser) parseBlockAddress(t ir.Type) (ir.Constant, error) {
	p.advance()
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	fnTok, err := p.expect(lexer.TokGlobalVar)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	blockTok, err := p.expect(lexer.TokLocalVar)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	var fn *ir.Function
	if f, ok := p.mod.GetFunction(fnTok.Value); ok {
		fn = f
	}
	var bb *ir.BasicBlock
	if p.curFunc != nil {
		if b, ok := p.blockLabels[blockTok.Value]; ok {
			bb = b
		}
	}
	return ir.NewBlockAddress(t, fn, bb), nil
}
