package parser

import (
	"strconv"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

var callingConvKeywords = map[string]ir.CallingConv{
	"ccc": ir.CC_C, "fastcc": ir.CC_Fast, "coldcc": ir.CC_Cold,
	"webkit_jscc": ir.CC_WebKit_JS, "anyregcc": ir.CC_AnyReg,
	"preserve_mostcc": ir.CC_PreserveMost, "preserve_allcc": ir.CC_PreserveAll,
	"swiftcc": ir.CC_Swift, "swifttailcc": ir.CC_SwiftTail,
	"cxx_fast_tlscc": ir.CC_CXX_FAST_TLS, "tailcc": ir.CC_Tail,
	"x86_stdcallcc": ir.CC_X86_StdCall, "x86_fastcallcc": ir.CC_X86_FastCall,
	"x86_thiscallcc": ir.CC_X86_ThisCall, "x86_vectorcallcc": ir.CC_X86_VectorCall,
	"arm_apcscc": ir.CC_ARM_APCS, "arm_aapcscc": ir.CC_ARM_AAPCS,
	"arm_aapcs_vfpcc": ir.CC_ARM_AAPCS_VFP, "ptx_kernel": ir.CC_PTX_Kernel,
	"ptx_device": ir.CC_PTX_Device, "spir_func": ir.CC_SPIR_FUNC,
	"spir_kernel": ir.CC_SPIR_KERNEL, "win64cc": ir.CC_Win64,
	"x86_64_sysvcc": ir.CC_X86_64_SysV, "amdgpu_kernel": ir.CC_AMDGPU_KERNEL,
	"amdgpu_vs": ir.CC_AMDGPU_VS, "amdgpu_gs": ir.CC_AMDGPU_GS,
	"amdgpu_ps": ir.CC_AMDGPU_PS, "amdgpu_cs": ir.CC_AMDGPU_CS,
	"amdgpu_hs": ir.CC_AMDGPU_HS,
}

// parseFunction parses both `declare` (no body) and `define` (body
// required), sharing the entire attribute-stack grammar per §4.3.
func (p *Parser) parseFunction() error {
	isDefine := p.atKeyword("define")
	p.advance()

	linkage, preemption, visibility := p.parseLinkagePreemptionVisibility()

	callConv := ir.CC_C
	if p.at(lexer.TokKeyword) {
		if cc, ok := callingConvKeywords[p.cur.Value]; ok {
			callConv = cc
			p.advance()
		} else if p.cur.Value == "cc" {
			p.advance()
			n, err := p.expectIntLit()
			if err != nil {
				return err
			}
			callConv = ir.CallingConv(n)
		}
	}

	retAttrs, err := p.parseParamAttrList()
	if err != nil {
		return err
	}

	retType, err := p.parseType()
	if err != nil {
		return err
	}

	nameTok, err := p.expect(lexer.TokGlobalVar)
	if err != nil {
		return err
	}

	params, paramAttrs, paramNames, vararg, err := p.parseParameterList()
	if err != nil {
		return err
	}

	sig := p.ctx.Function(retType, params, vararg).(*ir.FunctionType)

	fn := p.resolveOrDefineFunction(nameTok.Value, sig)
	fn.Linkage = linkage
	fn.Preemption = preemption
	fn.Visibility = visibility
	fn.CallConv = callConv
	fn.RetAttrs = retAttrs
	fn.IsDeclaration = !isDefine
	for i, a := range paramAttrs {
		if i < len(fn.Args) {
			fn.Args[i].Attrs = a
			fn.Args[i].SetName(paramNames[i])
		}
	}

	// Function attributes: bare keywords/groups before the optional
	// body-introducing clauses.
	for p.at(lexer.TokAttrGroupID) || (p.at(lexer.TokKeyword) && isFuncAttrKeyword(p.cur.Value)) {
		if p.at(lexer.TokAttrGroupID) {
			fn.FnAttrs = append(fn.FnAttrs, p.attrGroups[p.cur.Value]...)
			p.advance()
			continue
		}
		fa, err := p.parseOneFuncAttr()
		if err != nil {
			return err
		}
		fn.FnAttrs = append(fn.FnAttrs, fa)
	}

	for {
		switch {
		case p.atKeyword("section"):
			p.advance()
			s, err := p.expect(lexer.TokStringLit)
			if err != nil {
				return err
			}
			fn.Section = s.Value
		case p.atKeyword("comdat"):
			p.advance()
			if p.at(lexer.TokLParen) {
				p.advance()
				cname, err := p.expect(lexer.TokComdatVar)
				if err != nil {
					return err
				}
				fn.Comdat = p.mod.Comdats[cname.Value]
				if _, err := p.expect(lexer.TokRParen); err != nil {
					return err
				}
			} else {
				fn.Comdat = p.mod.Comdats[nameTok.Value]
			}
		case p.atKeyword("align"):
			p.advance()
			n, err := p.expectIntLit()
			if err != nil {
				return err
			}
			fn.HasAlign = true
			fn.Align = uint32(n)
		case p.atKeyword("gc"):
			p.advance()
			s, err := p.expect(lexer.TokStringLit)
			if err != nil {
				return err
			}
			fn.GC = s.Value
		case p.atKeyword("prefix"):
			p.advance()
			t, err := p.parseType()
			if err != nil {
				return err
			}
			c, err := p.parseConstant(t)
			if err != nil {
				return err
			}
			fn.Prefix = c
		case p.atKeyword("prologue"):
			p.advance()
			t, err := p.parseType()
			if err != nil {
				return err
			}
			c, err := p.parseConstant(t)
			if err != nil {
				return err
			}
			fn.Prologue = c
		case p.atKeyword("personality"):
			p.advance()
			t, err := p.parseType()
			if err != nil {
				return err
			}
			c, err := p.parseConstant(t)
			if err != nil {
				return err
			}
			fn.Personality = c
		case p.at(lexer.TokMetadataVar) && !p.cur.IsNumericName:
			k, id, err := p.parseMetadataAttachment()
			if err != nil {
				return err
			}
			if fn.Metadata == nil {
				fn.Metadata = map[string]*ir.MDNode{}
			}
			fn.Metadata[k] = id
		default:
			goto doneAttrs
		}
	}
doneAttrs:

	if !isDefine {
		return nil
	}
	return p.parseFunctionBody(fn)
}

func isFuncAttrKeyword(kw string) bool {
	switch kw {
	case "alwaysinline", "builtin", "cold", "convergent", "hot", "inlinehint",
		"jumptable", "minsize", "naked", "nobuiltin", "noduplicate",
		"noimplicitfloat", "noinline", "nonlazybind", "noredzone", "noreturn",
		"norecurse", "nounwind", "nosync", "null_pointer_is_valid",
		"optforfuzzing", "optnone", "optsize", "safestack", "sanitize_address",
		"sanitize_hwaddress", "sanitize_memory", "sanitize_thread",
		"speculatable", "ssp", "sspreq", "sspstrong", "strictfp", "uwtable",
		"willreturn", "mustprogress", "nocallback", "vscale_range":
		return true
	}
	return false
}

// resolveOrDefineFunction looks up a previously forward-referenced
// function global, or an already-declared one (a `declare` followed by
// a matching `define` is legal and refines the same Function), or
// creates a fresh one.
func (p *Parser) resolveOrDefineFunction(name string, sig *ir.FunctionType) *ir.Function {
	if f, ok := p.mod.GetFunction(name); ok {
		return f
	}
	fn := ir.NewFunction(p.ctx, name, sig)
	if ref, ok := p.globalRefs[name]; ok {
		ir.RewriteAllUsesWith(ref, fn)
		delete(p.globalRefs, name)
	}
	p.mod.AddFunction(fn)
	return fn
}

// parseParameterList parses `( [type attr* [%name]], ..., [...] )`.
func (p *Parser) parseParameterList() ([]ir.Type, [][]ir.Attribute, []string, bool, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, nil, nil, false, err
	}
	var types []ir.Type
	var attrs [][]ir.Attribute
	var names []string
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
				return nil, nil, nil, false, err
			}
			a, err := p.parseParamAttrList()
			if err != nil {
				return nil, nil, nil, false, err
			}
			name := ""
			if p.at(lexer.TokLocalVar) {
				name = p.cur.Value
				p.advance()
			}
			types = append(types, t)
			attrs = append(attrs, a)
			names = append(names, name)
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, nil, nil, false, err
	}
	return types, attrs, names, vararg, nil
}

// resetFunctionState initializes the per-function symbol table,
// anonymous-id counter, and block-label table (§4.3 "the parser
// maintains, per function, (a)...(d)").
func (p *Parser) resetFunctionState(fn *ir.Function) {
	p.curFunc = fn
	p.locals = make(map[string]ir.Value)
	p.blockLabels = make(map[string]*ir.BasicBlock)
	p.nextAnonID = 0
	for _, a := range fn.Args {
		if a.Name() != "" {
			p.locals[a.Name()] = a
		}
	}
}

// parseFunctionBody parses the `{ ... }` sequence of basic blocks.
func (p *Parser) parseFunctionBody(fn *ir.Function) error {
	p.resetFunctionState(fn)
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return err
	}
	for !p.at(lexer.TokRBrace) {
		bb, err := p.parseBasicBlock(fn)
		if err != nil {
			return err
		}
		fn.AppendBlock(bb)
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return err
	}
	if err := p.checkUnresolvedLocals(); err != nil {
		return err
	}
	p.curFunc = nil
	p.curBlock = nil
	return nil
}

func (p *Parser) checkUnresolvedLocals() error {
	for name, v := range p.locals {
		if ref, ok := v.(*ir.ForwardRef); ok && len(ref.Uses()) > 0 {
			return p.errf("unresolved forward reference to local %%%s", name)
		}
		_ = name
	}
	return nil
}

// parseBasicBlock parses one label (explicit `name:` or implicit
// anonymous) followed by a non-empty instruction sequence ending in a
// terminator.
func (p *Parser) parseBasicBlock(fn *ir.Function) (*ir.BasicBlock, error) {
	label := ""
	if (p.at(lexer.TokIdentifier) || p.at(lexer.TokIntLit)) && p.peek.Type == lexer.TokColon {
		label = p.cur.Value
		p.advance()
		p.advance()
	} else {
		label = strconv.Itoa(p.nextAnonID)
	}
	bb := p.bindBlockLabel(label)
	p.curBlock = bb

	for {
		if err := p.parseInstruction(bb); err != nil {
			return nil, err
		}
		if bb.Terminator() != nil {
			break
		}
		if p.at(lexer.TokRBrace) {
			return nil, p.errf("basic block %%%s falls through without a terminator", label)
		}
	}
	return bb, nil
}

// bindBlockLabel looks up or creates the BasicBlock for a label,
// resolving any forward reference (e.g. an earlier `br label %foo`)
// the moment the block is actually reached.
func (p *Parser) bindBlockLabel(label string) *ir.BasicBlock {
	if bb, ok := p.blockLabels[label]; ok {
		return bb
	}
	bb := ir.NewBasicBlock(p.ctx, label)
	p.blockLabels[label] = bb
	if existing, ok := p.locals[label]; ok {
		if ref, isRef := existing.(*ir.ForwardRef); isRef {
			ir.RewriteAllUsesWith(ref, bb)
		}
	}
	p.locals[label] = bb
	if _, err := strconv.Atoi(label); err == nil {
		p.allocateAnonID(label)
	}
	return bb
}

// allocateAnonID keeps the anonymous SSA counter monotonic once an
// explicit numeric label/value name claims a slot, so later implicit
// (unnamed) allocations never collide with it.
func (p *Parser) allocateAnonID(numeric string) {
	n, err := strconv.Atoi(numeric)
	if err == nil && n >= p.nextAnonID {
		p.nextAnonID = n + 1
	}
}

// nextAnonName allocates the next implicit local name (§8 property 2
// "anonymous SSA numbering").
func (p *Parser) nextAnonName() string {
	n := p.nextAnonID
	p.nextAnonID++
	return strconv.Itoa(n)
}

// defineLocal installs val as the definition of name, resolving any
// pending forward reference and erroring on redefinition.
func (p *Parser) defineLocal(name string, val ir.Value) error {
	if existing, ok := p.locals[name]; ok {
		if ref, isRef := existing.(*ir.ForwardRef); isRef {
			ir.RewriteAllUsesWith(ref, val)
			p.locals[name] = val
			return nil
		}
		return p.errf("redefinition of %%%s", name)
	}
	p.locals[name] = val
	return nil
}

// useLocal resolves a `%name` reference, installing a typed forward
// reference placeholder the first time an as-yet-undefined name is
// seen (§4.3 "Forward references").
func (p *Parser) useLocal(name string, expectedType ir.Type) ir.Value {
	if v, ok := p.locals[name]; ok {
		return v
	}
	ref := ir.NewForwardRef("local", expectedType, name)
	p.locals[name] = ref
	return ref
}
