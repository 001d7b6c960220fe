// context.go: execution contexts and chained symbol tables.
package sentience

// SymbolTable maps names to values with lexical chaining: reads fall through
// to the parent, writes always land in this table.
type SymbolTable struct {
	symbols map[string]Value
	parent  *SymbolTable
}

// NewSymbolTable creates an empty table chained to parent (which may be nil).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Value), parent: parent}
}

// Get resolves name, walking outward through parents.
func (st *SymbolTable) Get(name string) (Value, bool) {
	if v, ok := st.symbols[name]; ok {
		return v, true
	}
	if st.parent != nil {
		return st.parent.Get(name)
	}
	return Value{}, false
}

// Set binds name in this table, shadowing any outer binding.
func (st *SymbolTable) Set(name string, v Value) {
	st.symbols[name] = v
}

// Remove deletes a local binding. It does not touch parents.
func (st *SymbolTable) Remove(name string) {
	delete(st.symbols, name)
}

// Context is one execution frame. Each function call pushes a fresh context
// whose Parent is the frame the call happened in and whose ParentEntryPos is
// the call site, which is exactly what a traceback needs.
type Context struct {
	DisplayName    string
	Parent         *Context
	ParentEntryPos *Position
	Symbols        *SymbolTable
}

// NewContext creates a child frame of parent entered at entryPos.
func NewContext(displayName string, parent *Context, entryPos *Position) *Context {
	return &Context{DisplayName: displayName, Parent: parent, ParentEntryPos: entryPos}
}
