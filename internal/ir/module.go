package ir

// Module owns everything produced by a single parse (§3 "Module").
// Ownership is tree-shaped; references between children (a `call` to a
// Function, a `!dbg` to a metadata node) are non-owning handles
// resolved during parsing.
type Module struct {
	Context        *Context
	SourceFilename string
	TargetDatalayout string
	TargetTriple     string
	ModuleAsm        []string

	Functions       []*Function
	Globals         []*GlobalVariable
	// NamedStructOrder records identified-struct definition order as
	// encountered in source (`%name = type ...`), since the interner
	// itself is an unordered map.
	NamedStructOrder []string

	NamedMetadata []*NamedMetadata
	// MetadataByID is the flat slab §9 "Cyclic references" describes:
	// every `!N = ...` definition is registered here, and every `!N`
	// reference elsewhere points at the same *MDNode, resolved in a
	// link pass at end-of-module.
	MetadataByID map[int]*MDNode

	Comdats map[string]*Comdat

	funcByName   map[string]*Function
	globalByName map[string]*GlobalVariable
}

func NewModule(name string, ctx *Context) *Module {
	return &Module{
		Context:        ctx,
		SourceFilename: name,
		MetadataByID:   make(map[int]*MDNode),
		Comdats:        make(map[string]*Comdat),
		funcByName:     make(map[string]*Function),
		globalByName:   make(map[string]*GlobalVariable),
	}
}

func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
	m.funcByName[f.Name()] = f
}

func (m *Module) AddGlobal(g *GlobalVariable) {
	m.Globals = append(m.Globals, g)
	m.globalByName[g.Name()] = g
}

func (m *Module) GetFunction(name string) (*Function, bool) {
	f, ok := m.funcByName[name]
	return f, ok
}

func (m *Module) GetGlobal(name string) (*GlobalVariable, bool) {
	g, ok := m.globalByName[name]
	return g, ok
}

// MDNodeFor looks up or creates the placeholder slab entry for numeric
// metadata id N; subsequent calls with the same id return the same
// *MDNode, which is how forward references to `!N` are satisfied
// without a second resolution pass over already-built operands.
func (m *Module) MDNodeFor(id int) *MDNode {
	if n, ok := m.MetadataByID[id]; ok {
		return n
	}
	n := &MDNode{ID: id}
	m.MetadataByID[id] = n
	return n
}

// NamedMetadataByName finds or creates `!name = !{ ... }`.
func (m *Module) NamedMetadataByName(name string) *NamedMetadata {
	for _, nm := range m.NamedMetadata {
		if nm.Name == name {
			return nm
		}
	}
	nm := &NamedMetadata{Name: name}
	m.NamedMetadata = append(m.NamedMetadata, nm)
	return nm
}
