package ir

// Linkage is the linkage tag on a Function or GlobalVariable.
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkagePrivate
	LinkageInternal
	LinkageAvailableExternally
	LinkageLinkOnce
	LinkageLinkOnceODR
	LinkageWeak
	LinkageWeakODR
	LinkageCommon
	LinkageAppending
	LinkageExternWeak
)

func (l Linkage) String() string {
	switch l {
	case LinkagePrivate:
		return "private"
	case LinkageInternal:
		return "internal"
	case LinkageAvailableExternally:
		return "available_externally"
	case LinkageLinkOnce:
		return "linkonce"
	case LinkageLinkOnceODR:
		return "linkonce_odr"
	case LinkageWeak:
		return "weak"
	case LinkageWeakODR:
		return "weak_odr"
	case LinkageCommon:
		return "common"
	case LinkageAppending:
		return "appending"
	case LinkageExternWeak:
		return "extern_weak"
	default:
		return "external"
	}
}

// Visibility is the visibility tag (default/hidden/protected).
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityHidden
	VisibilityProtected
)

// DSOLocal/Preemption isn't a full enum in this front end — dso_local
// and dso_preemptable are mutually exclusive boolean-ish keywords
// tracked as a Preemption value.
type Preemption int

const (
	PreemptionSpecified Preemption = iota
	DSOLocal
	DSOPreemptable
)

// ThreadLocalMode is the `thread_local(mode)` tag.
type ThreadLocalMode int

const (
	NotThreadLocal ThreadLocalMode = iota
	ThreadLocalGeneralDynamic
	ThreadLocalLocalDynamic
	ThreadLocalInitialExec
	ThreadLocalLocalExec
	ThreadLocalDefault // bare `thread_local` with no explicit mode
)

// UnnamedAddr is the `unnamed_addr` / `local_unnamed_addr` tag.
type UnnamedAddr int

const (
	AddressSignificant UnnamedAddr = iota
	UnnamedAddrGlobal
	LocalUnnamedAddr
)

// CallingConv enumerates the named calling conventions §4.1 lists
// ("cconv"); kept as the subset exercised by the spec's worked
// examples and verifier rules plus the common GPU/ARM/x86 tags.
type CallingConv int

const (
	CC_C CallingConv = iota
	CC_Fast
	CC_Cold
	CC_GHC
	CC_WebKit_JS
	CC_AnyReg
	CC_PreserveMost
	CC_PreserveAll
	CC_Swift
	CC_CXX_FAST_TLS
	CC_Tail
	CC_SwiftTail
	CC_X86_StdCall
	CC_X86_FastCall
	CC_X86_ThisCall
	CC_X86_VectorCall
	CC_ARM_APCS
	CC_ARM_AAPCS
	CC_ARM_AAPCS_VFP
	CC_PTX_Kernel
	CC_PTX_Device
	CC_SPIR_FUNC
	CC_SPIR_KERNEL
	CC_Win64
	CC_X86_64_SysV
	CC_AMDGPU_KERNEL
	CC_AMDGPU_VS
	CC_AMDGPU_GS
	CC_AMDGPU_PS
	CC_AMDGPU_CS
	CC_AMDGPU_HS
)

// AtomicOrdering enumerates the memory ordering keywords (§4.1/§4.3
// load/store/cmpxchg/atomicrmw).
type AtomicOrdering int

const (
	OrderNotAtomic AtomicOrdering = iota
	OrderUnordered
	OrderMonotonic
	OrderAcquire
	OrderRelease
	OrderAcqRel
	OrderSeqCst
)

func (o AtomicOrdering) String() string {
	switch o {
	case OrderUnordered:
		return "unordered"
	case OrderMonotonic:
		return "monotonic"
	case OrderAcquire:
		return "acquire"
	case OrderRelease:
		return "release"
	case OrderAcqRel:
		return "acq_rel"
	case OrderSeqCst:
		return "seq_cst"
	default:
		return "not_atomic"
	}
}

// Strength ranks ordering strictness so the verifier can reject a
// cmpxchg/atomicrmw whose failure ordering is stronger than success's
// (a SUPPLEMENTED FEATURES rule).
func (o AtomicOrdering) Strength() int { return int(o) }

// AtomicRMWOp enumerates `atomicrmw`'s operation keyword.
type AtomicRMWOp int

const (
	RMWXchg AtomicRMWOp = iota
	RMWAdd
	RMWSub
	RMWAnd
	RMWNand
	RMWOr
	RMWXor
	RMWMax
	RMWMin
	RMWUMax
	RMWUMin
	RMWFAdd
	RMWFSub
)

// IntPredicate enumerates `icmp`'s predicate keyword.
type IntPredicate int

const (
	IntEQ IntPredicate = iota
	IntNE
	IntUGT
	IntUGE
	IntULT
	IntULE
	IntSGT
	IntSGE
	IntSLT
	IntSLE
)

// FloatPredicate enumerates `fcmp`'s predicate keyword.
type FloatPredicate int

const (
	FloatFalse FloatPredicate = iota
	FloatOEQ
	FloatOGT
	FloatOGE
	FloatOLT
	FloatOLE
	FloatONE
	FloatORD
	FloatUEQ
	FloatUGT
	FloatUGE
	FloatULT
	FloatULE
	FloatUNE
	FloatUNO
	FloatTrue
)

// TailKind distinguishes `tail`/`musttail`/`notail` call qualifiers.
type TailKind int

const (
	TailNone TailKind = iota
	TailHint
	MustTail
	NoTail
)

// FastMathFlags is the bitset of `fast`/`nnan`/`ninf`/`nsz`/`arcp`/
// `contract`/`afn`/`reassoc` flags on floating point instructions.
type FastMathFlags uint16

const (
	FMFNone     FastMathFlags = 0
	FMFNNaN     FastMathFlags = 1 << iota
	FMFNInf
	FMFNSZ
	FMFArcp
	FMFContract
	FMFAFN
	FMFReassoc
	FMFFast = FMFNNaN | FMFNInf | FMFNSZ | FMFArcp | FMFContract | FMFAFN | FMFReassoc
)

// ParamAttrKind enumerates the parameter/return attribute vocabulary
// §4.3 "Attributes on parameters" describes. Attributes taking a type
// operand (ByRef/ByVal/SRet/InAlloca/ElementType/Preallocated) store it
// in Attribute.Type; the rest are keyword-only or take a constant.
type ParamAttrKind int

const (
	AttrNoAlias ParamAttrKind = iota
	AttrNonNull
	AttrSignExt
	AttrZeroExt
	AttrImmArg
	AttrReadOnly
	AttrReadNone
	AttrReturned
	AttrNoCapture
	AttrNest
	AttrSwiftSelf
	AttrSwiftError
	AttrByRef
	AttrByVal
	AttrSRet
	AttrInAlloca
	AttrElementType
	AttrPreallocated
	AttrInitializes
	AttrAlign
	AttrDereferenceable
	AttrNoUndef
)

// Attribute is one parameter/return/call-site/function attribute. Type
// is set only for the type-parameterised attributes; IntOperand covers
// `align N`/`dereferenceable(N)`; Ranges covers `initializes((lo,hi),...)`.
type Attribute struct {
	Kind       ParamAttrKind
	Type       Type
	IntOperand uint64
	Ranges     [][2]int64
}

// FuncAttr is a bare function-attribute keyword or `"key"="value"`
// string attribute, collected from an inline list or an `attributes
// #N = { ... }` group.
type FuncAttr struct {
	Key   string
	Value string // empty for keyword-only attributes
	HasValue bool
}
