package frontend

import (
	"encoding/json"

	"github.com/jbirddog/midlangc/internal/mir"
	"github.com/jbirddog/midlangc/internal/schema"
)

// RaisedDocument wraps Document with the schema tag midlangc inspect uses
// to reject documents raised by an incompatible future version.
type RaisedDocument struct {
	Schema  string   `json:"schema"`
	Modules []Module `json:"modules"`
}

// Raise produces a structural mirror of prog: booleans are omitted when
// false (variadic, byref) via the json "omitempty" tags on Document's
// fields, and Ptr(None) maps to the "voidptr" scalar while Ptr(Some(T))
// maps to { "ptr": { "to": T } }.
func Raise(prog *mir.Program) *RaisedDocument {
	modules := make([]Module, 0, len(prog.Modules))
	for _, m := range prog.Modules {
		modules = append(modules, raiseModule(m))
	}
	return &RaisedDocument{Schema: schema.MIRV1, Modules: modules}
}

// MarshalCanonical renders doc as deterministic, sorted-key JSON.
func MarshalCanonical(doc *RaisedDocument) ([]byte, error) {
	return schema.MarshalDeterministic(doc)
}

func raiseModule(m *mir.Module) Module {
	decls := make([]Decl, 0, len(m.Decls))
	for _, d := range m.Decls {
		decls = append(decls, raiseDecl(d))
	}
	return Module{Name: m.Name, Decls: decls}
}

func raiseDecl(d mir.Decl) Decl {
	switch d := d.(type) {
	case *mir.FwdDecl:
		return Decl{FwdDecl: &FwdDecl{
			Name:       d.Name,
			Visibility: raiseVisibility(d.Visibility),
			Type:       raiseOptType(d.ReturnType),
			Args:       raiseFuncArgs(d.Args),
			Variadic:   d.Variadic,
		}}

	case *mir.FuncDecl:
		return Decl{FuncDecl: &FuncDecl{
			Name:       d.Name,
			Visibility: raiseVisibility(d.Visibility),
			Type:       raiseOptType(d.ReturnType),
			Args:       raiseFuncArgs(d.Args),
			Variadic:   d.Variadic,
			Stmts:      raiseStmts(d.Body),
		}}

	default:
		panic("frontend: unknown mir.Decl in Raise")
	}
}

func raiseVisibility(v mir.Visibility) string {
	if v == mir.Public {
		return "public"
	}
	return "private"
}

func raiseFuncArgs(args []mir.FuncArg) []FuncArg {
	out := make([]FuncArg, 0, len(args))
	for _, a := range args {
		out = append(out, FuncArg{Name: a.Name, Type: raiseType(a.Type)})
	}
	return out
}

func raiseOptType(t mir.Type) *Type {
	if t == nil {
		return nil
	}
	rt := raiseType(t)
	return &rt
}

func raiseType(t mir.Type) Type {
	switch t := t.(type) {
	case mir.BoolType:
		return Type{Scalar: "bool"}
	case mir.DoubleType:
		return Type{Scalar: "double"}
	case mir.Int32Type:
		return Type{Scalar: "int32"}
	case mir.Int64Type:
		return Type{Scalar: "int64"}
	case mir.StrType:
		return Type{Scalar: "str"}
	case mir.PtrType:
		if t.Inner == nil {
			return Type{Scalar: "voidptr"}
		}
		inner := raiseType(t.Inner)
		return Type{Ptr: &PtrType{To: inner}}
	default:
		panic("frontend: unknown mir.Type in Raise")
	}
}

func raiseStmts(stmts []mir.Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, raiseStmt(s))
	}
	return out
}

func raiseStmt(s mir.Stmt) Stmt {
	switch s := s.(type) {
	case *mir.Cond:
		cases := make([]CondCase, 0, len(s.Cases))
		for _, c := range s.Cases {
			cases = append(cases, CondCase{Expr: raiseExpr(c.Guard), Stmts: raiseStmts(c.Body)})
		}
		return Stmt{Cond: &CondStmt{Cases: cases}}

	case *mir.FuncCallStmt:
		return Stmt{FuncCall: &FuncCallStmt{Name: s.Name, Args: raiseExprs(s.Args)}}

	case *mir.Ret:
		if s.Value == nil {
			return Stmt{Ret: &RetStmt{}}
		}
		v := raiseExpr(s.Value)
		return Stmt{Ret: &RetStmt{Value: &v}}

	case *mir.VarDecl:
		return Stmt{VarDecl: &VarDeclStmt{Name: s.Name, Value: raiseExpr(s.Value)}}

	default:
		panic("frontend: unknown mir.Stmt in Raise")
	}
}

func raiseExprs(exprs []mir.Expr) []Expr {
	out := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, raiseExpr(e))
	}
	return out
}

func raiseExpr(e mir.Expr) Expr {
	switch e := e.(type) {
	case mir.ConstBool:
		return Expr{Const: constExpr(e.Value, "bool")}
	case mir.ConstDouble:
		return Expr{Const: constExpr(e.Value, "double")}
	case mir.ConstInt32:
		return Expr{Const: constExpr(e.Value, "int32")}
	case mir.ConstInt64:
		return Expr{Const: constExpr(e.Value, "int64")}
	case mir.ConstStr:
		return Expr{Const: constExpr(e.Value, "str")}

	case *mir.Cmp:
		cmp := &CmpExpr{Lhs: raiseExpr(e.Left), Rhs: raiseExpr(e.Right)}
		if e.Op == mir.Eq {
			return Expr{Eq: cmp}
		}
		return Expr{Ne: cmp}

	case *mir.Not:
		inner := raiseExpr(e.Inner)
		return Expr{Not: &NotExpr{Expr: inner}}

	case *mir.FuncCall:
		return Expr{FuncCall: &FuncCallExpr{
			Name: e.Name,
			Type: raiseType(e.ReturnType),
			Args: raiseExprs(e.Args),
		}}

	case *mir.VarRef:
		return Expr{VarRef: &VarRefExpr{
			Name:  e.Name,
			Type:  raiseType(e.VType),
			ByRef: e.ByRef,
		}}

	default:
		panic("frontend: unknown mir.Expr in Raise")
	}
}

func constExpr(value any, scalar string) *ConstExpr {
	raw, err := json.Marshal(value)
	if err != nil {
		panic("frontend: failed to marshal const scalar: " + err.Error())
	}
	return &ConstExpr{Value: raw, Type: Type{Scalar: scalar}}
}
