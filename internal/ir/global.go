package ir

// ComdatKind is the `$name = comdat <kind>` selection kind.
type ComdatKind int

const (
	ComdatAny ComdatKind = iota
	ComdatExactMatch
	ComdatLargest
	ComdatNoDuplicates
	ComdatSameSize
)

// Comdat groups globals/functions that should be folded together by
// the linker.
type Comdat struct {
	Name string
	Kind ComdatKind
}

// GlobalVariable carries the linkage/thread-local/address-space/const
// state §3 names; it is itself a first-class Value of type Pointer.
type GlobalVariable struct {
	valueBase
	Linkage      Linkage
	Preemption   Preemption
	Visibility   Visibility
	ThreadLocal  ThreadLocalMode
	AddrSpace    uint32
	IsConstant_  bool
	ValueType    Type // the pointee type — opaque ptr carries only AddrSpace, so this is tracked alongside
	Initializer  Constant
	Section      string
	HasAlign     bool
	Align        uint32
	Comdat       *Comdat
	UnnamedAddr  UnnamedAddr
	ExternallyInitialized bool
	Metadata     map[string]*MDNode
}

func NewGlobalVariable(ctx *Context, name string, valueType Type, addrSpace uint32) *GlobalVariable {
	return &GlobalVariable{
		valueBase: valueBase{typ: ctx.Pointer(addrSpace), name: name},
		ValueType: valueType,
		AddrSpace: addrSpace,
	}
}

func (g *GlobalVariable) ValueKind() ValueKind { return ValGlobalVariable }
func (g *GlobalVariable) base() *valueBase     { return &g.valueBase }
func (g *GlobalVariable) isConstant()          {}
