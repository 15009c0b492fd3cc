package ir

// Metadata is LLVM's second value universe (§3 "Metadata is not a
// value"): MDStrings, tuples, wrapped Values and the specialised debug
// info node kinds. Every numeric `!N` reference the parser meets is
// registered in Module.MetadataByID and resolved in a link pass at
// end-of-module (§9 "Cyclic references": store every node in a flat
// slab keyed by numeric id).
type Metadata interface {
	metadataKind() string
}

// MDString is a bare metadata string, `!"..."`.
type MDString struct {
	Val string
}

func (*MDString) metadataKind() string { return "MDString" }

// MDNode is either a numeric reference awaiting resolution or, once
// resolved, wraps the concrete Metadata it refers to. The parser
// creates an MDNode placeholder the moment it sees `!N` and fills in
// Resolved when the defining `!N = ...` is parsed (or at end-of-module
// link time if the definition came later in the source).
type MDNode struct {
	ID       int
	Resolved Metadata
}

func (*MDNode) metadataKind() string { return "MDNode" }

// MDTuple is `!{ ... }`, optionally `distinct` (never uniqued, so two
// distinct tuples with identical operands remain distinct nodes).
type MDTuple struct {
	Operands []Metadata // nil entries are legal (`null` metadata operand)
	Distinct bool
}

func (*MDTuple) metadataKind() string { return "MDTuple" }

// ValueAsMetadata wraps an IR Value (typically an SSA value or
// constant) so it can appear inside a metadata tuple, e.g. `i32 42` or
// `ptr @g` inside `!{...}`.
type ValueAsMetadata struct {
	V Value
}

func (*ValueAsMetadata) metadataKind() string { return "ValueAsMetadata" }

// NamedMetadata is a module-level named metadata node such as
// `!llvm.module.flags` or `!llvm.dbg.cu`; its operands are always
// numeric `!N` references per the grammar.
type NamedMetadata struct {
	Name     string
	Operands []*MDNode
}

// DwarfLang enumerates the DW_LANG_* constants accepted in
// `DICompileUnit(language: ...)`, grounded on the DWARF vocabulary in
// the gollvm debug-info helper this repo's verifier and parser both
// cross-check named fields against.
type DwarfLang int

const (
	DW_LANG_C89 DwarfLang = iota + 1
	DW_LANG_C
	DW_LANG_Ada83
	DW_LANG_C_plus_plus
	DW_LANG_Cobol74
	DW_LANG_Cobol85
	DW_LANG_Fortran77
	DW_LANG_Fortran90
	DW_LANG_Pascal83
	DW_LANG_Modula2
	DW_LANG_C_plus_plus_14 DwarfLang = 0x0021
	DW_LANG_Go             DwarfLang = 0x0016
	DW_LANG_Rust           DwarfLang = 0x001c
)

// EmissionKind enumerates DICompileUnit's `emissionKind` field.
type EmissionKind int

const (
	NoDebug EmissionKind = iota
	FullDebug
	LineTablesOnly
	DebugDirectivesOnly
)

// NameTableKind enumerates DICompileUnit's `nameTableKind` field.
type NameTableKind int

const (
	NameTableDefault NameTableKind = iota
	NameTableGNU
	NameTableNone
	NameTableApple
)

// DIFlags are the DIFlag* bitmask values usable in `flags:` fields,
// combined with `|` in source (`DIFlagPrototyped | DIFlagAllCallsDescribed`).
type DIFlags uint32

const (
	DIFlagZero               DIFlags = 0
	DIFlagPrivate            DIFlags = 1 << iota
	DIFlagProtected
	DIFlagFwdDecl
	DIFlagAppleBlock
	DIFlagVirtual
	DIFlagArtificial
	DIFlagExplicit
	DIFlagPrototyped
	DIFlagObjcClassComplete
	DIFlagVector
	DIFlagStaticMember
	DIFlagAllCallsDescribed
)

// DISPFlags are the DISPFlag* bitmask values on DISubprogram's
// `spFlags:` field.
type DISPFlags uint32

const (
	DISPFlagZero DISPFlags = 0
	DISPFlagVirtual DISPFlags = 1 << iota
	DISPFlagPureVirtual
	DISPFlagLocalToUnit
	DISPFlagDefinition
	DISPFlagOptimized
	DISPFlagMainSubprogram
)

// DIFile is `!DIFile(filename: "...", directory: "...")`.
type DIFile struct {
	Filename  string
	Directory string
	Checksum  string
}

func (*DIFile) metadataKind() string { return "DIFile" }

// DILocation is `!DILocation(line: N, column: N, scope: !N[, inlinedAt: !N])`.
type DILocation struct {
	Line      uint32
	Column    uint32
	Scope     *MDNode
	InlinedAt *MDNode
}

func (*DILocation) metadataKind() string { return "DILocation" }

// DICompileUnit is `!DICompileUnit(language: ..., file: !N, ...)`.
type DICompileUnit struct {
	Language       DwarfLang
	File           *MDNode
	Producer       string
	IsOptimized    bool
	Flags          string
	RuntimeVersion uint32
	EmissionKind   EmissionKind
	Enums          *MDNode
	RetainedTypes  *MDNode
	Globals        *MDNode
	ImportedEntities *MDNode
	SplitDebugInlining bool
	NameTableKind  NameTableKind
}

func (*DICompileUnit) metadataKind() string { return "DICompileUnit" }

// DISubroutineType is `!DISubroutineType(types: !N)`.
type DISubroutineType struct {
	Flags DIFlags
	CC    uint32
	Types *MDNode
}

func (*DISubroutineType) metadataKind() string { return "DISubroutineType" }

// DISubprogram is `!DISubprogram(name: "...", scope: !N, file: !N, ...)`.
type DISubprogram struct {
	Name          string
	LinkageName   string
	Scope         *MDNode
	File          *MDNode
	Line          uint32
	Type          *MDNode
	ScopeLine     uint32
	ContainingType *MDNode
	Flags         DIFlags
	SPFlags       DISPFlags
	Unit          *MDNode
	Declaration   *MDNode
	RetainedNodes *MDNode
}

func (*DISubprogram) metadataKind() string { return "DISubprogram" }

// DIBasicType is `!DIBasicType(name: "...", size: N, encoding: DW_ATE_...)`.
type DIBasicType struct {
	Name     string
	Size     uint64
	Align    uint32
	Encoding uint32 // DW_ATE_* value
}

func (*DIBasicType) metadataKind() string { return "DIBasicType" }

// DIDerivedType is `!DIDerivedType(tag: DW_TAG_pointer_type, baseType: !N, ...)`.
type DIDerivedType struct {
	Tag      uint32 // DW_TAG_* value
	Name     string
	Scope    *MDNode
	File     *MDNode
	Line     uint32
	BaseType *MDNode
	Size     uint64
	Align    uint32
	Offset   uint64
	Flags    DIFlags
}

func (*DIDerivedType) metadataKind() string { return "DIDerivedType" }

// DICompositeType is `!DICompositeType(tag: DW_TAG_structure_type, ...)`.
type DICompositeType struct {
	Tag        uint32
	Name       string
	Scope      *MDNode
	File       *MDNode
	Line       uint32
	BaseType   *MDNode
	Size       uint64
	Align      uint32
	Flags      DIFlags
	Elements   *MDNode
	Identifier string
}

func (*DICompositeType) metadataKind() string { return "DICompositeType" }

// DILexicalBlock is `!DILexicalBlock(scope: !N, file: !N, line: N, column: N)`.
type DILexicalBlock struct {
	Scope  *MDNode
	File   *MDNode
	Line   uint32
	Column uint32
}

func (*DILexicalBlock) metadataKind() string { return "DILexicalBlock" }

// DILocalVariable is `!DILocalVariable(name: "...", arg: N, scope: !N, ...)`.
type DILocalVariable struct {
	Name  string
	Arg   uint32
	Scope *MDNode
	File  *MDNode
	Line  uint32
	Type  *MDNode
	Flags DIFlags
}

func (*DILocalVariable) metadataKind() string { return "DILocalVariable" }

// DIExpression is `!DIExpression(op0, op1, ...)` — a flat list of
// DWARF-expression opcodes and literal operands.
type DIExpression struct {
	Elements []int64
}

func (*DIExpression) metadataKind() string { return "DIExpression" }

// DW_TAG_* / DW_ATE_* constants used by the specialised node field
// checker, grounded on the DWARF vocabulary in
// other_examples/2e6eabbc_quarnster-gollvm__llvm-debug.go.go.
const (
	DW_TAG_lexical_block   = 0x0b
	DW_TAG_compile_unit    = 0x11
	DW_TAG_variable        = 0x34
	DW_TAG_base_type       = 0x24
	DW_TAG_pointer_type    = 0x0F
	DW_TAG_structure_type  = 0x13
	DW_TAG_subroutine_type = 0x15
	DW_TAG_file_type       = 0x29
	DW_TAG_subprogram      = 0x2E
)

const (
	DW_ATE_address = 0x01
	DW_ATE_boolean = 0x02
	DW_ATE_float   = 0x04
	DW_ATE_signed  = 0x05
	DW_ATE_signed_char = 0x06
	DW_ATE_unsigned    = 0x07
	DW_ATE_unsigned_char = 0x08
)
