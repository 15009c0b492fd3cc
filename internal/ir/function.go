package ir

// Argument is an indexed, typed, attributed function parameter (§3
// "Arguments (indexed, typed, attributed)").
type Argument struct {
	valueBase
	Parent     *Function
	Index      int
	Attrs      []Attribute
}

func (a *Argument) ValueKind() ValueKind { return ValArgument }
func (a *Argument) base() *valueBase     { return &a.valueBase }

// Function owns an ordered list of basic blocks and arguments, plus the
// attribute/linkage/section/metadata state §3 names.
type Function struct {
	valueBase
	Sig        *FunctionType
	Args       []*Argument
	Blocks     []*BasicBlock
	Linkage    Linkage
	Preemption Preemption
	Visibility Visibility
	CallConv   CallingConv
	RetAttrs   []Attribute
	FnAttrs    []FuncAttr
	Section    string
	HasAlign   bool
	Align      uint32
	GC         string
	Comdat     *Comdat
	UnnamedAddr UnnamedAddr
	Prefix      Constant
	Prologue    Constant
	Personality Constant
	Metadata    map[string]*MDNode
	// IsDeclaration is true for `declare` (no body); false for
	// `define`. A declaration has Sig/Args but zero Blocks.
	IsDeclaration bool

	// NextAnonValueID backs §8 property 2 ("anonymous SSA numbering")
	// for the builder, which reads and advances it for each unnamed
	// result it inserts. The parser keeps its own per-function counter
	// and does not use this field.
	NextAnonValueID int
}

func NewFunction(ctx *Context, name string, sig *FunctionType) *Function {
	ptrTy := ctx.Pointer(0)
	f := &Function{
		valueBase: valueBase{typ: ptrTy, name: name},
		Sig:       sig,
	}
	for i, pt := range sig.Params {
		f.Args = append(f.Args, &Argument{valueBase: valueBase{typ: pt}, Parent: f, Index: i})
	}
	return f
}

func (f *Function) ValueKind() ValueKind { return ValFunction }
func (f *Function) base() *valueBase     { return &f.valueBase }

func (f *Function) isConstant() {} // a Function is usable as a Constant (GlobalValue)

func (f *Function) AppendBlock(bb *BasicBlock) {
	bb.Parent = f
	f.Blocks = append(f.Blocks, bb)
}
