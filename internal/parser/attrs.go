package parser

import (
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// paramAttrKinds maps the keyword spelling to its ParamAttrKind tag.
// Attributes that accept a type operand are listed again in
// typedParamAttrs below (§4.3 "Attributes on parameters").
var paramAttrKinds = map[string]ir.ParamAttrKind{
	"noalias": ir.AttrNoAlias, "nonnull": ir.AttrNonNull,
	"signext": ir.AttrSignExt, "zeroext": ir.AttrZeroExt,
	"immarg": ir.AttrImmArg, "readonly": ir.AttrReadOnly,
	"readnone": ir.AttrReadNone, "returned": ir.AttrReturned,
	"nocapture": ir.AttrNoCapture, "nest": ir.AttrNest,
	"swiftself": ir.AttrSwiftSelf, "swifterror": ir.AttrSwiftError,
	"byref": ir.AttrByRef, "byval": ir.AttrByVal, "sret": ir.AttrSRet,
	"inalloca": ir.AttrInAlloca, "elementtype": ir.AttrElementType,
	"preallocated": ir.AttrPreallocated, "align": ir.AttrAlign,
	"dereferenceable": ir.AttrDereferenceable, "noundef": ir.AttrNoUndef,
}

var typedParamAttrs = map[string]bool{
	"byref": true, "byval": true, "sret": true, "inalloca": true,
	"elementtype": true, "preallocated": true,
}

func isParamAttrKeyword2(kw string) bool {
	_, ok := paramAttrKinds[kw]
	return ok || kw == "initializes"
}

// parseParamAttrList parses the zero-or-more attribute run after a
// parameter/return type: type-taking attributes (`byref(T)`) parse
// their type operand eagerly; `align N`/`dereferenceable(N)` parse an
// integer operand; `initializes((lo,hi),...)` parses a range list;
// everything else is keyword-only. Order is not significant and
// attributes compose freely, matching §4.3's "Attributes on
// parameters".
func (p *Parser) parseParamAttrList() ([]ir.Attribute, error) {
	var attrs []ir.Attribute
	for p.at(lexer.TokKeyword) && isParamAttrKeyword2(p.cur.Value) {
		kw := p.cur.Value
		p.advance()
		if kw == "initializes" {
			ranges, err := p.parseInitializesRanges()
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, ir.Attribute{Kind: ir.AttrInitializes, Ranges: ranges})
			continue
		}
		kind := paramAttrKinds[kw]
		a := ir.Attribute{Kind: kind}
		if typedParamAttrs[kw] {
			if _, err := p.expect(lexer.TokLParen); err != nil {
				return nil, err
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			a.Type = t
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return nil, err
			}
		} else if kw == "align" {
			if _, err := p.expect(lexer.TokLParen); err == nil {
				n, err := p.expectIntLit()
				if err != nil {
					return nil, err
				}
				a.IntOperand = uint64(n)
				if _, err := p.expect(lexer.TokRParen); err != nil {
					return nil, err
				}
			} else {
				n, err := p.expectIntLit()
				if err != nil {
					return nil, err
				}
				a.IntOperand = uint64(n)
			}
		} else if kw == "dereferenceable" {
			if _, err := p.expect(lexer.TokLParen); err != nil {
				return nil, err
			}
			n, err := p.expectIntLit()
			if err != nil {
				return nil, err
			}
			a.IntOperand = uint64(n)
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return nil, err
			}
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func (p *Parser) parseInitializesRanges() ([][2]int64, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var ranges [][2]int64
	for {
		if _, err := p.expect(lexer.TokLParen); err != nil {
			return nil, err
		}
		lo, err := p.expectIntLit()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokComma); err != nil {
			return nil, err
		}
		hi, err := p.expectIntLit()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		ranges = append(ranges, [2]int64{lo, hi})
		if p.at(lexer.TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return ranges, nil
}
