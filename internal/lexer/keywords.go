package lexer

// keywords is the closed vocabulary of bareword tokens §4.1 classifies
// as KEYWORD rather than IDENTIFIER: opcodes, type keywords other than
// i<N>, linkage/visibility/preemption, calling conventions, atomic
// orderings, fast-math flags, parameter/function attributes, and the
// handful of structural barewords (`type`, `opaque`, `x`, `to`, `from`,
// `label`, `blockaddress`, ...). Grounded on the teacher's `keywords`
// map in lexer/lexer.go, generalised from a handful of language
// keywords to LLVM's much larger closed set.
var keywords = buildKeywordSet()

func buildKeywordSet() map[string]bool {
	set := map[string]bool{}
	add := func(words ...string) {
		for _, w := range words {
			set[w] = true
		}
	}

	// Top-level structure
	add("target", "datalayout", "triple", "source_filename", "module", "asm",
		"type", "opaque", "global", "constant", "define", "declare",
		"attributes", "comdat", "distinct", "uselistorder", "uselistorder_bb")

	// Linkage
	add("private", "internal", "available_externally", "linkonce", "weak",
		"common", "appending", "extern_weak", "linkonce_odr", "weak_odr",
		"external")

	// Preemption / visibility
	add("dso_local", "dso_preemptable", "default", "hidden", "protected")

	// Thread-local / unnamed_addr
	add("thread_local", "localdynamic", "initialexec", "localexec",
		"unnamed_addr", "local_unnamed_addr", "externally_initialized",
		"addrspace")

	// Comdat selection kinds
	add("any", "exactmatch", "largest", "noduplicates", "samesize")

	// Function extras
	add("section", "align", "gc", "prefix", "prologue", "personality")

	// Calling conventions
	add("ccc", "fastcc", "coldcc", "cc", "webkit_jscc", "anyregcc",
		"preserve_mostcc", "preserve_allcc", "swiftcc", "swifttailcc",
		"cxx_fast_tlscc", "tailcc", "x86_stdcallcc", "x86_fastcallcc",
		"x86_thiscallcc", "x86_vectorcallcc", "arm_apcscc", "arm_aapcscc",
		"arm_aapcs_vfpcc", "ptx_kernel", "ptx_device", "spir_func",
		"spir_kernel", "win64cc", "x86_64_sysvcc", "amdgpu_kernel",
		"amdgpu_vs", "amdgpu_gs", "amdgpu_ps", "amdgpu_cs", "amdgpu_hs")

	// Types
	add("void", "label", "token", "metadata", "half", "bfloat", "float",
		"double", "fp128", "x86_fp80", "ppc_fp128", "x86_amx", "ptr", "x")

	// Constants
	add("true", "false", "null", "none", "undef", "poison", "zeroinitializer",
		"c", "blockaddress")

	// Terminators / misc opcodes
	add("ret", "br", "switch", "indirectbr", "invoke", "callbr", "resume",
		"unreachable", "cleanupret", "catchret", "catchswitch", "catchpad",
		"cleanuppad", "landingpad", "cleanup", "catch", "filter", "to",
		"unwind", "from", "caller", "label")

	// Binary/bitwise
	add("add", "fadd", "sub", "fsub", "mul", "fmul", "udiv", "sdiv", "fdiv",
		"urem", "srem", "frem", "shl", "lshr", "ashr", "and", "or", "xor")

	// Overflow / exactness qualifiers
	add("nuw", "nsw", "exact")

	// Fast-math flags
	add("fast", "nnan", "ninf", "nsz", "arcp", "contract", "afn", "reassoc")

	// Memory
	add("alloca", "load", "store", "fence", "cmpxchg", "atomicrmw",
		"getelementptr", "inbounds", "volatile", "atomic", "weak",
		"syncscope", "inalloca")

	// Orderings
	add("unordered", "monotonic", "acquire", "release", "acq_rel", "seq_cst")

	// atomicrmw ops
	add("xchg", "nand", "max", "min", "umax", "umin", "fmax", "fmin",
		"uinc_wrap", "udec_wrap")

	// Casts
	add("trunc", "zext", "sext", "fptrunc", "fpext", "fptoui", "fptosi",
		"uitofp", "sitofp", "ptrtoint", "inttoptr", "bitcast",
		"addrspacecast")

	// Other
	add("icmp", "fcmp", "phi", "select", "call", "va_arg", "extractvalue",
		"insertvalue", "extractelement", "insertelement", "shufflevector",
		"tail", "musttail", "notail")

	// icmp / fcmp predicates
	add("eq", "ne", "ugt", "uge", "ult", "ule", "sgt", "sge", "slt", "sle",
		"oeq", "ogt", "oge", "olt", "ole", "one", "ord", "ueq", "une", "uno")

	// Parameter attributes
	add("zeroext", "signext", "inreg", "byval", "byref", "preallocated",
		"inalloca", "sret", "elementtype", "align", "noalias", "nocapture",
		"nofree", "nest", "returned", "nonnull", "dereferenceable",
		"dereferenceable_or_null", "swiftself", "swifterror", "immarg",
		"noundef", "readonly", "readnone", "writeonly", "initializes")

	// Function attributes commonly carried past the closed-keyword line
	// without a type operand
	add("alwaysinline", "builtin", "cold", "convergent", "hot",
		"inlinehint", "jumptable", "minsize", "naked", "nobuiltin",
		"noduplicate", "noimplicitfloat", "noinline", "nonlazybind",
		"noredzone", "noreturn", "norecurse", "nounwind", "nosync",
		"null_pointer_is_valid", "optforfuzzing", "optnone", "optsize",
		"safestack", "sanitize_address", "sanitize_hwaddress",
		"sanitize_memory", "sanitize_thread", "speculatable", "ssp",
		"sspreq", "sspstrong", "strictfp", "uwtable", "willreturn",
		"mustprogress", "nocallback", "vscale_range")

	return set
}

// IsKeyword reports whether word is a recognised LLVM keyword.
func IsKeyword(word string) bool { return keywords[word] }
