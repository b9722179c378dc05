// Package frontend implements component C7: the structural conversion
// between the JSON source document and mir.Program (lower), and the
// reverse, canonical-JSON-producing conversion (raise).
package frontend

import "encoding/json"

// Document is the top-level JSON source: { "modules": [...] }.
type Document struct {
	Modules []Module `json:"modules"`
}

type Module struct {
	Name  string `json:"name"`
	Decls []Decl `json:"decls"`
}

// Decl is tagged by which of its two fields is present.
type Decl struct {
	FwdDecl  *FwdDecl  `json:"fwddecl,omitempty"`
	FuncDecl *FuncDecl `json:"funcdecl,omitempty"`
}

type FwdDecl struct {
	Name       string    `json:"name"`
	Visibility string    `json:"visibility"`
	Type       *Type     `json:"type,omitempty"`
	Args       []FuncArg `json:"args"`
	Variadic   bool      `json:"variadic,omitempty"`
}

type FuncDecl struct {
	Name       string    `json:"name"`
	Visibility string    `json:"visibility"`
	Type       *Type     `json:"type,omitempty"`
	Args       []FuncArg `json:"args"`
	Variadic   bool      `json:"variadic,omitempty"`
	Stmts      []Stmt    `json:"stmts"`
}

type FuncArg struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Type mirrors the JSON scalar-or-object union: a bare string for the
// scalar kinds, or an object with a "ptr" key for Ptr(Some(T)).
type Type struct {
	Scalar string   // "bool" | "double" | "int32" | "int64" | "str" | "voidptr"
	Ptr    *PtrType // non-nil when this Type is { "ptr": { "to": Type } }
}

type PtrType struct {
	To Type `json:"to"`
}

func (t Type) MarshalJSON() ([]byte, error) {
	if t.Ptr != nil {
		return json.Marshal(struct {
			Ptr PtrType `json:"ptr"`
		}{*t.Ptr})
	}
	return json.Marshal(t.Scalar)
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var scalar string
	if err := json.Unmarshal(data, &scalar); err == nil {
		t.Scalar = scalar
		t.Ptr = nil
		return nil
	}

	var obj struct {
		Ptr PtrType `json:"ptr"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Ptr = &obj.Ptr
	return nil
}

// Stmt is tagged by which field is present.
type Stmt struct {
	Cond     *CondStmt     `json:"cond,omitempty"`
	FuncCall *FuncCallStmt `json:"funccall,omitempty"`
	Ret      *RetStmt      `json:"ret,omitempty"`
	VarDecl  *VarDeclStmt  `json:"vardecl,omitempty"`
}

type CondStmt struct {
	Cases []CondCase `json:"cases"`
}

type CondCase struct {
	Expr  Expr   `json:"expr"`
	Stmts []Stmt `json:"stmts"`
}

type FuncCallStmt struct {
	Name string `json:"name"`
	Args []Expr `json:"args"`
}

type RetStmt struct {
	Value *Expr `json:"value,omitempty"`
}

type VarDeclStmt struct {
	Name  string `json:"name"`
	Value Expr   `json:"value"`
}

// Expr is tagged by which field is present.
type Expr struct {
	Const    *ConstExpr    `json:"const,omitempty"`
	FuncCall *FuncCallExpr `json:"funccall,omitempty"`
	VarRef   *VarRefExpr   `json:"varref,omitempty"`
	Eq       *CmpExpr      `json:"eq,omitempty"`
	Ne       *CmpExpr      `json:"ne,omitempty"`
	Not      *NotExpr      `json:"not,omitempty"`
}

type ConstExpr struct {
	Value json.RawMessage `json:"value"`
	Type  Type            `json:"type"`
}

type FuncCallExpr struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	Args []Expr `json:"args"`
}

type VarRefExpr struct {
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	ByRef bool   `json:"byref,omitempty"`
}

type CmpExpr struct {
	Lhs Expr `json:"lhs"`
	Rhs Expr `json:"rhs"`
}

type NotExpr struct {
	Expr Expr `json:"expr"`
}
