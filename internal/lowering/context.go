package lowering

import (
	"fmt"
	"sort"

	"github.com/jbirddog/midlangc/internal/lir"
)

// TmpRef records a stack-slot materialized for a by-ref actual argument:
// RefName is the slot's pointer variable, VarName is the caller's variable
// that must be read back into after the call, VarType is its LIR type.
type TmpRef struct {
	RefName string
	VarName string
	VarType lir.Type
}

// Context is the per-module lowering state (component C3): the string
// constant pool, the unique-name generator, and the by-ref temp-reference
// stack. A Context is created fresh for each module and discarded once that
// module's CompUnit is built.
type Context struct {
	prefix  string
	pool    map[string]string // literal -> symbol name
	order   []string          // literal insertion order, for symbol numbering
	tmpRefs [][]TmpRef
	uniq    uint32
}

// New creates a lowering context for the module named prefix.
func New(prefix string) *Context {
	return &Context{
		prefix: prefix,
		pool:   make(map[string]string),
	}
}

// UniqName mints a name guaranteed not to collide with any source
// identifier: synthesized names contain "..", which the source grammar
// never produces.
func (c *Context) UniqName(tag string) string {
	name := fmt.Sprintf("..%s..%d", tag, c.uniq)
	c.uniq++
	return name
}

// NameForStr interns s in the string pool, returning its global symbol
// name. Repeated calls with the same literal return the same symbol.
func (c *Context) NameForStr(s string) string {
	if sym, ok := c.pool[s]; ok {
		return sym
	}
	sym := fmt.Sprintf("%s_str%d", c.prefix, len(c.order))
	c.pool[s] = sym
	c.order = append(c.order, s)
	return sym
}

// Decls returns the pool's Data declarations in sorted-key (literal) order,
// making emission deterministic and stable across runs regardless of
// insertion order. The printer's data escaping rule (§4.3, §9 Open
// Questions) is just Go's own %q quoting: "\n" becomes the two literal
// characters '\' 'n' and other control characters are backslash-escaped the
// same way, so the literal is passed straight through — escaping it by hand
// first would double the backslash.
func (c *Context) Decls() []lir.Decl {
	literals := make([]string, 0, len(c.pool))
	for lit := range c.pool {
		literals = append(literals, lit)
	}
	sort.Strings(literals)

	decls := make([]lir.Decl, 0, len(literals))
	for _, lit := range literals {
		decls = append(decls, &lir.Data{
			Name: c.pool[lit],
			Fields: []lir.DataField{
				{Type: lir.B, Literal: fmt.Sprintf("%q", lit)},
				{Type: lir.B, Literal: "0"},
			},
		})
	}
	return decls
}

// PushTmpRefs opens a new by-ref buffering frame for a top-level statement.
func (c *Context) PushTmpRefs() {
	c.tmpRefs = append(c.tmpRefs, nil)
}

// PopTmpRefs closes the current by-ref buffering frame, returning whatever
// was recorded in it.
func (c *Context) PopTmpRefs() []TmpRef {
	n := len(c.tmpRefs)
	if n == 0 {
		panic("lowering: PopTmpRefs called with no open frame")
	}
	top := c.tmpRefs[n-1]
	c.tmpRefs = c.tmpRefs[:n-1]
	return top
}

// AddTmpRef records a by-ref materialization in the current frame.
func (c *Context) AddTmpRef(ref TmpRef) {
	n := len(c.tmpRefs)
	if n == 0 {
		panic("lowering: AddTmpRef called with no open frame")
	}
	c.tmpRefs[n-1] = append(c.tmpRefs[n-1], ref)
}
