package parser

import (
	"strconv"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// parseNamedMetadataDef parses `!name = !{ !1, !2, ... }` (§4.3 Metadata
// parsing): a module-level named metadata node whose operands are
// always numeric !N references.
func (p *Parser) parseNamedMetadataDef() error {
	nameTok := p.cur
	p.advance()
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	if _, err := p.expect(lexer.TokBang); err != nil {
		return err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return err
	}
	nm := p.mod.NamedMetadataByName(nameTok.Value)
	if !p.at(lexer.TokRBrace) {
		for {
			idTok, err := p.expect(lexer.TokMetadataVar)
			if err != nil {
				return err
			}
			if !idTok.IsNumericName {
				return p.errf("named metadata operand must be !N, got !%s", idTok.Value)
			}
			id, convErr := parseDecimal(idTok.Value)
			if convErr != nil {
				return p.errf("malformed metadata id !%s", idTok.Value)
			}
			nm.Operands = append(nm.Operands, p.mod.MDNodeFor(id))
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	_, err := p.expect(lexer.TokRBrace)
	return err
}

// parseNumericMetadataDef parses `!N = [distinct] <metadata-node>`, the
// definition half of the forward-reference slab described in §9
// "Cyclic references": Module.MDNodeFor(N) returns the same placeholder
// every caller has already been handed, and this just fills in its
// Resolved field.
func (p *Parser) parseNumericMetadataDef() error {
	idTok := p.cur
	p.advance()
	id, convErr := parseDecimal(idTok.Value)
	if convErr != nil {
		return p.errf("malformed metadata id !%s", idTok.Value)
	}
	if _, err := p.expect(lexer.TokEquals); err != nil {
		return err
	}
	distinct := false
	if p.atKeyword("distinct") {
		distinct = true
		p.advance()
	}
	md, err := p.parseMetadataNode(distinct)
	if err != nil {
		return err
	}
	p.mod.MDNodeFor(id).Resolved = md
	return nil
}

// parseMetadataNode parses one metadata node: a tuple literal, a
// specialised debug-info node (`!DILocation(...)`), a bare metadata
// string (`!"..."`), or a reference to another node (`!N`). distinct
// only affects the tuple form; the specialised node structs have no
// uniquing flag of their own since every node already lives at a
// unique slab slot.
func (p *Parser) parseMetadataNode(distinct bool) (ir.Metadata, error) {
	switch {
	case p.at(lexer.TokBang):
		return p.parseMDTupleBody(distinct)
	case p.at(lexer.TokMetadataVar) && p.cur.IsNumericName:
		id, convErr := parseDecimal(p.cur.Value)
		if convErr != nil {
			return nil, p.errf("malformed metadata id !%s", p.cur.Value)
		}
		p.advance()
		return p.mod.MDNodeFor(id), nil
	case p.at(lexer.TokMetadataVar):
		name := p.cur.Value
		if parse, ok := diNodeParsers[name]; ok {
			p.advance()
			return parse(p)
		}
		p.advance()
		return &ir.MDString{Val: name}, nil
	default:
		return nil, p.errf("expected a metadata node, got %s %q", p.cur.Type, p.cur.Value)
	}
}

// parseMDTupleBody parses the `!{ ... }` body once `distinct` (if any)
// has already been consumed by the caller.
func (p *Parser) parseMDTupleBody(distinct bool) (ir.Metadata, error) {
	if _, err := p.expect(lexer.TokBang); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	tup := &ir.MDTuple{Distinct: distinct}
	if !p.at(lexer.TokRBrace) {
		for {
			op, err := p.parseMetadataTupleOperand()
			if err != nil {
				return nil, err
			}
			tup.Operands = append(tup.Operands, op)
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
	return tup, nil
}

// parseMetadataTupleOperand parses one `!{ ... }` element: a nested
// metadata reference/node, a bare `null` (a legal empty slot, e.g. an
// unspecified `retainedNodes` entry), or a typed constant (the `i32 1`
// /`!"wchar_size"`/`i32 4` triple that makes up one `!llvm.module.flags`
// entry), wrapped so it can sit alongside true metadata operands.
func (p *Parser) parseMetadataTupleOperand() (ir.Metadata, error) {
	if p.at(lexer.TokBang) || p.at(lexer.TokMetadataVar) {
		return p.parseMetadataNode(false)
	}
	if p.atKeyword("null") {
		p.advance()
		return nil, nil
	}
	_, v, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	return &ir.ValueAsMetadata{V: v}, nil
}

// parseMetadataValue parses the `metadata` value-position grammar used
// by intrinsic call arguments (`call void @llvm.dbg.value(metadata
// i32 %x, metadata !7, metadata !DIExpression())`): either a bare
// metadata node, or a bridging `<type> <value>` pair wrapping an
// ordinary Value as metadata.
func (p *Parser) parseMetadataValue(resultTy ir.Type) (ir.Value, error) {
	if p.at(lexer.TokBang) || p.at(lexer.TokMetadataVar) {
		md, err := p.parseMetadataNode(false)
		if err != nil {
			return nil, err
		}
		return ir.NewMetadataAsValue(resultTy, md), nil
	}
	_, v, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	return ir.NewMetadataAsValue(resultTy, &ir.ValueAsMetadata{V: v}), nil
}

// diFieldValue is the decoded form of one `name: value` pair inside a
// specialised debug-info node's argument list; exactly the kind fields
// relevant to how it was spelled are populated, the rest stay zero.
type diFieldValue struct {
	kind    string // "str", "int", "bool", "md", "ident"
	str     string
	num     int64
	md      *ir.MDNode
	idents  []string
}

func diStr(v diFieldValue) string    { return v.str }
func diU32(v diFieldValue) uint32    { return uint32(v.num) }
func diU64(v diFieldValue) uint64    { return uint64(v.num) }
func diMD(v diFieldValue) *ir.MDNode { return v.md }

func diFlagsFromIdents(v diFieldValue) ir.DIFlags {
	var out ir.DIFlags
	for _, id := range v.idents {
		out |= diFlagByName[id]
	}
	return out
}

func dispFlagsFromIdents(v diFieldValue) ir.DISPFlags {
	var out ir.DISPFlags
	for _, id := range v.idents {
		out |= dispFlagByName[id]
	}
	return out
}

// parseDIFields parses the `(name: value, ...)` argument list shared by
// every specialised debug-info node and rejects any field name not in
// allowed — the grammar's "fixed schema per node kind" (§4.3), reported
// as UnknownField per the same section.
func (p *Parser) parseDIFields(nodeName string, allowed ...string) (map[string]diFieldValue, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}
	fields := map[string]diFieldValue{}
	if !p.at(lexer.TokRParen) {
		for {
			nameTok, err := p.expect(lexer.TokIdentifier)
			if err != nil {
				nameTok, err = p.expect(lexer.TokKeyword)
				if err != nil {
					return nil, err
				}
			}
			if !allowedSet[nameTok.Value] {
				return nil, p.errf("UnknownField: %q is not a field of !%s", nameTok.Value, nodeName)
			}
			if _, err := p.expect(lexer.TokColon); err != nil {
				return nil, err
			}
			val, err := p.parseDIFieldValue()
			if err != nil {
				return nil, err
			}
			fields[nameTok.Value] = val
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
	return fields, nil
}

func (p *Parser) parseDIFieldValue() (diFieldValue, error) {
	switch {
	case p.at(lexer.TokStringLit):
		v := p.cur.Value
		p.advance()
		return diFieldValue{kind: "str", str: v}, nil
	case p.at(lexer.TokIntLit):
		n, err := strconv.ParseInt(p.cur.Value, 0, 64)
		if err != nil {
			return diFieldValue{}, p.errf("malformed integer %q", p.cur.Value)
		}
		p.advance()
		return diFieldValue{kind: "int", num: n}, nil
	case p.atKeyword("true"):
		p.advance()
		return diFieldValue{kind: "bool", num: 1}, nil
	case p.atKeyword("false"):
		p.advance()
		return diFieldValue{kind: "bool", num: 0}, nil
	case p.atKeyword("null"):
		p.advance()
		return diFieldValue{kind: "md"}, nil
	case p.at(lexer.TokMetadataVar) && p.cur.IsNumericName:
		id, convErr := parseDecimal(p.cur.Value)
		if convErr != nil {
			return diFieldValue{}, p.errf("malformed metadata id !%s", p.cur.Value)
		}
		p.advance()
		return diFieldValue{kind: "md", md: p.mod.MDNodeFor(id)}, nil
	case p.at(lexer.TokIdentifier), p.at(lexer.TokKeyword):
		idents := []string{p.cur.Value}
		p.advance()
		for p.at(lexer.TokPipe) {
			p.advance()
			tok, err := p.expect(lexer.TokIdentifier)
			if err != nil {
				tok, err = p.expect(lexer.TokKeyword)
				if err != nil {
					return diFieldValue{}, err
				}
			}
			idents = append(idents, tok.Value)
		}
		return diFieldValue{kind: "ident", idents: idents}, nil
	default:
		return diFieldValue{}, p.errf("unexpected metadata field value %s %q", p.cur.Type, p.cur.Value)
	}
}

// diNodeParsers dispatches a specialised debug-info node's bareword
// name (already consumed) to its named-field parser.
var diNodeParsers = map[string]func(*Parser) (ir.Metadata, error){
	"DIFile":           (*Parser).parseDIFile,
	"DILocation":       (*Parser).parseDILocation,
	"DICompileUnit":    (*Parser).parseDICompileUnit,
	"DISubroutineType": (*Parser).parseDISubroutineType,
	"DISubprogram":     (*Parser).parseDISubprogram,
	"DIBasicType":      (*Parser).parseDIBasicType,
	"DIDerivedType":    (*Parser).parseDIDerivedType,
	"DICompositeType":  (*Parser).parseDICompositeType,
	"DILexicalBlock":   (*Parser).parseDILexicalBlock,
	"DILocalVariable":  (*Parser).parseDILocalVariable,
	"DIExpression":     (*Parser).parseDIExpression,
}

var dwarfLangByName = map[string]ir.DwarfLang{
	"DW_LANG_C89": ir.DW_LANG_C89, "DW_LANG_C": ir.DW_LANG_C,
	"DW_LANG_Ada83": ir.DW_LANG_Ada83, "DW_LANG_C_plus_plus": ir.DW_LANG_C_plus_plus,
	"DW_LANG_Cobol74": ir.DW_LANG_Cobol74, "DW_LANG_Cobol85": ir.DW_LANG_Cobol85,
	"DW_LANG_Fortran77": ir.DW_LANG_Fortran77, "DW_LANG_Fortran90": ir.DW_LANG_Fortran90,
	"DW_LANG_Pascal83": ir.DW_LANG_Pascal83, "DW_LANG_Modula2": ir.DW_LANG_Modula2,
	"DW_LANG_C_plus_plus_14": ir.DW_LANG_C_plus_plus_14,
	"DW_LANG_Go":             ir.DW_LANG_Go,
	"DW_LANG_Rust":           ir.DW_LANG_Rust,
}

var emissionKindByName = map[string]ir.EmissionKind{
	"NoDebug": ir.NoDebug, "FullDebug": ir.FullDebug,
	"LineTablesOnly": ir.LineTablesOnly, "DebugDirectivesOnly": ir.DebugDirectivesOnly,
}

var nameTableKindByName = map[string]ir.NameTableKind{
	"Default": ir.NameTableDefault, "GNU": ir.NameTableGNU,
	"None": ir.NameTableNone, "Apple": ir.NameTableApple,
}

var diFlagByName = map[string]ir.DIFlags{
	"DIFlagZero": ir.DIFlagZero, "DIFlagPrivate": ir.DIFlagPrivate,
	"DIFlagProtected": ir.DIFlagProtected, "DIFlagFwdDecl": ir.DIFlagFwdDecl,
	"DIFlagAppleBlock": ir.DIFlagAppleBlock, "DIFlagVirtual": ir.DIFlagVirtual,
	"DIFlagArtificial": ir.DIFlagArtificial, "DIFlagExplicit": ir.DIFlagExplicit,
	"DIFlagPrototyped": ir.DIFlagPrototyped, "DIFlagObjcClassComplete": ir.DIFlagObjcClassComplete,
	"DIFlagVector": ir.DIFlagVector, "DIFlagStaticMember": ir.DIFlagStaticMember,
	"DIFlagAllCallsDescribed": ir.DIFlagAllCallsDescribed,
}

var dispFlagByName = map[string]ir.DISPFlags{
	"DISPFlagZero": ir.DISPFlagZero, "DISPFlagVirtual": ir.DISPFlagVirtual,
	"DISPFlagPureVirtual": ir.DISPFlagPureVirtual, "DISPFlagLocalToUnit": ir.DISPFlagLocalToUnit,
	"DISPFlagDefinition": ir.DISPFlagDefinition, "DISPFlagOptimized": ir.DISPFlagOptimized,
	"DISPFlagMainSubprogram": ir.DISPFlagMainSubprogram,
}

var dwTagByName = map[string]uint32{
	"DW_TAG_lexical_block": ir.DW_TAG_lexical_block, "DW_TAG_compile_unit": ir.DW_TAG_compile_unit,
	"DW_TAG_variable": ir.DW_TAG_variable, "DW_TAG_base_type": ir.DW_TAG_base_type,
	"DW_TAG_pointer_type": ir.DW_TAG_pointer_type, "DW_TAG_structure_type": ir.DW_TAG_structure_type,
	"DW_TAG_subroutine_type": ir.DW_TAG_subroutine_type, "DW_TAG_file_type": ir.DW_TAG_file_type,
	"DW_TAG_subprogram": ir.DW_TAG_subprogram,
}

var dwAteByName = map[string]uint32{
	"DW_ATE_address": ir.DW_ATE_address, "DW_ATE_boolean": ir.DW_ATE_boolean,
	"DW_ATE_float": ir.DW_ATE_float, "DW_ATE_signed": ir.DW_ATE_signed,
	"DW_ATE_signed_char": ir.DW_ATE_signed_char, "DW_ATE_unsigned": ir.DW_ATE_unsigned,
	"DW_ATE_unsigned_char": ir.DW_ATE_unsigned_char,
}

// dwOpByName covers the DWARF expression opcodes DIExpression's
// grammar actually exercises in practice; anything else is rejected by
// parseDIExpression's field lookup returning the zero value only for
// names explicitly listed here would be wrong, so unknown names are
// rejected before reaching this table (see parseDIExpression).
var dwOpByName = map[string]int64{
	"DW_OP_deref":         0x06,
	"DW_OP_xderef":        0x18,
	"DW_OP_plus":          0x22,
	"DW_OP_minus":         0x1c,
	"DW_OP_plus_uconst":   0x23,
	"DW_OP_swap":          0x16,
	"DW_OP_stack_value":   0x9f,
	"DW_OP_constu":        0x10,
	"DW_OP_LLVM_fragment": 0x1000,
	"DW_OP_LLVM_convert":  0x1001,
}

func (p *Parser) parseDIFile() (ir.Metadata, error) {
	f, err := p.parseDIFields("DIFile", "filename", "directory", "checksumkind", "checksum", "source")
	if err != nil {
		return nil, err
	}
	return &ir.DIFile{
		Filename:  diStr(f["filename"]),
		Directory: diStr(f["directory"]),
		Checksum:  diStr(f["checksum"]),
	}, nil
}

func (p *Parser) parseDILocation() (ir.Metadata, error) {
	f, err := p.parseDIFields("DILocation", "line", "column", "scope", "inlinedAt", "isImplicitCode")
	if err != nil {
		return nil, err
	}
	return &ir.DILocation{
		Line:      diU32(f["line"]),
		Column:    diU32(f["column"]),
		Scope:     diMD(f["scope"]),
		InlinedAt: diMD(f["inlinedAt"]),
	}, nil
}

func (p *Parser) parseDICompileUnit() (ir.Metadata, error) {
	f, err := p.parseDIFields("DICompileUnit",
		"language", "file", "producer", "isOptimized", "flags", "runtimeVersion",
		"splitDebugFilename", "emissionKind", "enums", "retainedTypes", "globals",
		"imports", "macros", "splitDebugInlining", "nameTableKind", "sysroot", "sdk")
	if err != nil {
		return nil, err
	}
	var lang ir.DwarfLang
	if v, ok := f["language"]; ok && len(v.idents) > 0 {
		lang = dwarfLangByName[v.idents[0]]
	}
	emission := ir.NoDebug
	if v, ok := f["emissionKind"]; ok && len(v.idents) > 0 {
		emission = emissionKindByName[v.idents[0]]
	}
	nameTable := ir.NameTableDefault
	if v, ok := f["nameTableKind"]; ok && len(v.idents) > 0 {
		nameTable = nameTableKindByName[v.idents[0]]
	}
	splitDebugInlining := true
	if v, ok := f["splitDebugInlining"]; ok {
		splitDebugInlining = v.num != 0
	}
	return &ir.DICompileUnit{
		Language:           lang,
		File:               diMD(f["file"]),
		Producer:           diStr(f["producer"]),
		IsOptimized:        f["isOptimized"].num != 0,
		Flags:              diStr(f["flags"]),
		RuntimeVersion:     diU32(f["runtimeVersion"]),
		EmissionKind:       emission,
		Enums:              diMD(f["enums"]),
		RetainedTypes:      diMD(f["retainedTypes"]),
		Globals:            diMD(f["globals"]),
		ImportedEntities:   diMD(f["imports"]),
		SplitDebugInlining: splitDebugInlining,
		NameTableKind:      nameTable,
	}, nil
}

func (p *Parser) parseDISubroutineType() (ir.Metadata, error) {
	f, err := p.parseDIFields("DISubroutineType", "flags", "cc", "types")
	if err != nil {
		return nil, err
	}
	var flags ir.DIFlags
	if v, ok := f["flags"]; ok {
		flags = diFlagsFromIdents(v)
	}
	return &ir.DISubroutineType{
		Flags: flags,
		CC:    diU32(f["cc"]),
		Types: diMD(f["types"]),
	}, nil
}

func (p *Parser) parseDISubprogram() (ir.Metadata, error) {
	f, err := p.parseDIFields("DISubprogram",
		"name", "linkageName", "scope", "file", "line", "type", "scopeLine",
		"containingType", "virtuality", "virtualIndex", "thisAdjustment",
		"flags", "spFlags", "isDefinition", "isOptimized", "unit",
		"templateParams", "declaration", "retainedNodes", "thrownTypes",
		"annotations", "targetFuncName")
	if err != nil {
		return nil, err
	}
	var flags ir.DIFlags
	if v, ok := f["flags"]; ok {
		flags = diFlagsFromIdents(v)
	}
	var spFlags ir.DISPFlags
	if v, ok := f["spFlags"]; ok {
		spFlags = dispFlagsFromIdents(v)
	}
	return &ir.DISubprogram{
		Name:           diStr(f["name"]),
		LinkageName:    diStr(f["linkageName"]),
		Scope:          diMD(f["scope"]),
		File:           diMD(f["file"]),
		Line:           diU32(f["line"]),
		Type:           diMD(f["type"]),
		ScopeLine:      diU32(f["scopeLine"]),
		ContainingType: diMD(f["containingType"]),
		Flags:          flags,
		SPFlags:        spFlags,
		Unit:           diMD(f["unit"]),
		Declaration:    diMD(f["declaration"]),
		RetainedNodes:  diMD(f["retainedNodes"]),
	}, nil
}

func (p *Parser) parseDIBasicType() (ir.Metadata, error) {
	f, err := p.parseDIFields("DIBasicType", "tag", "name", "size", "align", "encoding", "flags")
	if err != nil {
		return nil, err
	}
	var enc uint32
	if v, ok := f["encoding"]; ok && len(v.idents) > 0 {
		enc = dwAteByName[v.idents[0]]
	}
	return &ir.DIBasicType{
		Name:     diStr(f["name"]),
		Size:     diU64(f["size"]),
		Align:    diU32(f["align"]),
		Encoding: enc,
	}, nil
}

func (p *Parser) parseDIDerivedType() (ir.Metadata, error) {
	f, err := p.parseDIFields("DIDerivedType",
		"tag", "name", "scope", "file", "line", "baseType", "size", "align",
		"offset", "flags", "extraData", "dwarfAddressSpace", "annotations")
	if err != nil {
		return nil, err
	}
	var tag uint32
	if v, ok := f["tag"]; ok && len(v.idents) > 0 {
		tag = dwTagByName[v.idents[0]]
	}
	var flags ir.DIFlags
	if v, ok := f["flags"]; ok {
		flags = diFlagsFromIdents(v)
	}
	return &ir.DIDerivedType{
		Tag:      tag,
		Name:     diStr(f["name"]),
		Scope:    diMD(f["scope"]),
		File:     diMD(f["file"]),
		Line:     diU32(f["line"]),
		BaseType: diMD(f["baseType"]),
		Size:     diU64(f["size"]),
		Align:    diU32(f["align"]),
		Offset:   diU64(f["offset"]),
		Flags:    flags,
	}, nil
}

func (p *Parser) parseDICompositeType() (ir.Metadata, error) {
	f, err := p.parseDIFields("DICompositeType",
		"tag", "name", "scope", "file", "line", "baseType", "size", "align",
		"flags", "elements", "vtableHolder", "templateParams", "identifier",
		"discriminator", "dataLocation", "associated", "allocated", "rank",
		"annotations")
	if err != nil {
		return nil, err
	}
	var tag uint32
	if v, ok := f["tag"]; ok && len(v.idents) > 0 {
		tag = dwTagByName[v.idents[0]]
	}
	var flags ir.DIFlags
	if v, ok := f["flags"]; ok {
		flags = diFlagsFromIdents(v)
	}
	return &ir.DICompositeType{
		Tag:        tag,
		Name:       diStr(f["name"]),
		Scope:      diMD(f["scope"]),
		File:       diMD(f["file"]),
		Line:       diU32(f["line"]),
		BaseType:   diMD(f["baseType"]),
		Size:       diU64(f["size"]),
		Align:      diU32(f["align"]),
		Flags:      flags,
		Elements:   diMD(f["elements"]),
		Identifier: diStr(f["identifier"]),
	}, nil
}

func (p *Parser) parseDILexicalBlock() (ir.Metadata, error) {
	f, err := p.parseDIFields("DILexicalBlock", "scope", "file", "line", "column")
	if err != nil {
		return nil, err
	}
	return &ir.DILexicalBlock{
		Scope:  diMD(f["scope"]),
		File:   diMD(f["file"]),
		Line:   diU32(f["line"]),
		Column: diU32(f["column"]),
	}, nil
}

func (p *Parser) parseDILocalVariable() (ir.Metadata, error) {
	f, err := p.parseDIFields("DILocalVariable",
		"name", "arg", "scope", "file", "line", "type", "flags", "align", "annotations")
	if err != nil {
		return nil, err
	}
	var flags ir.DIFlags
	if v, ok := f["flags"]; ok {
		flags = diFlagsFromIdents(v)
	}
	return &ir.DILocalVariable{
		Name:  diStr(f["name"]),
		Arg:   diU32(f["arg"]),
		Scope: diMD(f["scope"]),
		File:  diMD(f["file"]),
		Line:  diU32(f["line"]),
		Type:  diMD(f["type"]),
		Flags: flags,
	}, nil
}

// parseDIExpression parses `!DIExpression(DW_OP_deref, 3, ...)`, a flat
// comma list of DWARF operator names and literal operands rather than
// the named-field syntax every other specialised node uses.
func (p *Parser) parseDIExpression() (ir.Metadata, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var elems []int64
	if !p.at(lexer.TokRParen) {
		for {
			switch {
			case p.at(lexer.TokIntLit):
				n, err := strconv.ParseInt(p.cur.Value, 0, 64)
				if err != nil {
					return nil, p.errf("malformed DIExpression operand %q", p.cur.Value)
				}
				p.advance()
				elems = append(elems, n)
			case p.at(lexer.TokIdentifier), p.at(lexer.TokKeyword):
				op, ok := dwOpByName[p.cur.Value]
				if !ok {
					return nil, p.errf("UnknownField: %q is not a DIExpression operator", p.cur.Value)
				}
				p.advance()
				elems = append(elems, op)
			default:
				return nil, p.errf("unexpected DIExpression operand %s %q", p.cur.Type, p.cur.Value)
			}
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
	return &ir.DIExpression{Elements: elems}, nil
}
