package frontend

import (
	"encoding/json"
	"fmt"

	"github.com/jbirddog/midlangc/internal/mir"
)

// Lower maps a parsed JSON Document into a mir.Program, defaulting absent
// "variadic"/"byref" booleans to false per §6.
func Lower(doc *Document) (*mir.Program, error) {
	modules := make([]*mir.Module, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		lowered, err := lowerModule(&m)
		if err != nil {
			return nil, err
		}
		modules = append(modules, lowered)
	}
	return &mir.Program{Modules: modules}, nil
}

func lowerModule(m *Module) (*mir.Module, error) {
	decls := make([]mir.Decl, 0, len(m.Decls))
	for _, d := range m.Decls {
		lowered, err := lowerDecl(&d)
		if err != nil {
			return nil, err
		}
		decls = append(decls, lowered)
	}
	return &mir.Module{Name: m.Name, Decls: decls}, nil
}

func lowerDecl(d *Decl) (mir.Decl, error) {
	switch {
	case d.FwdDecl != nil:
		fd := d.FwdDecl
		return &mir.FwdDecl{
			Name:       fd.Name,
			Visibility: lowerVisibility(fd.Visibility),
			ReturnType: lowerOptType(fd.Type),
			Args:       lowerFuncArgs(fd.Args),
			Variadic:   fd.Variadic,
		}, nil

	case d.FuncDecl != nil:
		fd := d.FuncDecl
		body, err := lowerStmts(fd.Stmts)
		if err != nil {
			return nil, err
		}
		return &mir.FuncDecl{
			Name:       fd.Name,
			Visibility: lowerVisibility(fd.Visibility),
			ReturnType: lowerOptType(fd.Type),
			Args:       lowerFuncArgs(fd.Args),
			Variadic:   fd.Variadic,
			Body:       body,
		}, nil

	default:
		return nil, fmt.Errorf("frontend: decl has neither fwddecl nor funcdecl")
	}
}

func lowerVisibility(s string) mir.Visibility {
	if s == "public" {
		return mir.Public
	}
	return mir.Private
}

func lowerFuncArgs(args []FuncArg) []mir.FuncArg {
	out := make([]mir.FuncArg, 0, len(args))
	for _, a := range args {
		out = append(out, mir.FuncArg{Name: a.Name, Type: lowerType(a.Type)})
	}
	return out
}

func lowerOptType(t *Type) mir.Type {
	if t == nil {
		return nil
	}
	return lowerType(*t)
}

func lowerType(t Type) mir.Type {
	if t.Ptr != nil {
		inner := lowerType(t.Ptr.To)
		return mir.PtrType{Inner: inner}
	}
	switch t.Scalar {
	case "bool":
		return mir.BoolType{}
	case "double":
		return mir.DoubleType{}
	case "int32":
		return mir.Int32Type{}
	case "int64":
		return mir.Int64Type{}
	case "str":
		return mir.StrType{}
	case "voidptr":
		return mir.PtrType{Inner: nil}
	default:
		panic(fmt.Sprintf("frontend: unknown JSON type scalar %q", t.Scalar))
	}
}

func lowerStmts(stmts []Stmt) ([]mir.Stmt, error) {
	out := make([]mir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		lowered, err := lowerStmt(&s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

func lowerStmt(s *Stmt) (mir.Stmt, error) {
	switch {
	case s.Cond != nil:
		cases := make([]mir.CondCase, 0, len(s.Cond.Cases))
		for _, c := range s.Cond.Cases {
			guard, err := lowerExpr(&c.Expr)
			if err != nil {
				return nil, err
			}
			body, err := lowerStmts(c.Stmts)
			if err != nil {
				return nil, err
			}
			cases = append(cases, mir.CondCase{Guard: guard, Body: body})
		}
		return &mir.Cond{Cases: cases}, nil

	case s.FuncCall != nil:
		args, err := lowerExprs(s.FuncCall.Args)
		if err != nil {
			return nil, err
		}
		return &mir.FuncCallStmt{Name: s.FuncCall.Name, Args: args}, nil

	case s.Ret != nil:
		if s.Ret.Value == nil {
			return &mir.Ret{}, nil
		}
		v, err := lowerExpr(s.Ret.Value)
		if err != nil {
			return nil, err
		}
		return &mir.Ret{Value: v}, nil

	case s.VarDecl != nil:
		v, err := lowerExpr(&s.VarDecl.Value)
		if err != nil {
			return nil, err
		}
		return &mir.VarDecl{Name: s.VarDecl.Name, Value: v}, nil

	default:
		return nil, fmt.Errorf("frontend: stmt has no recognized tag")
	}
}

func lowerExprs(exprs []Expr) ([]mir.Expr, error) {
	out := make([]mir.Expr, 0, len(exprs))
	for _, e := range exprs {
		lowered, err := lowerExpr(&e)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered)
	}
	return out, nil
}

func lowerExpr(e *Expr) (mir.Expr, error) {
	switch {
	case e.Const != nil:
		return lowerConst(e.Const)

	case e.FuncCall != nil:
		args, err := lowerExprs(e.FuncCall.Args)
		if err != nil {
			return nil, err
		}
		return &mir.FuncCall{
			Name:       e.FuncCall.Name,
			ReturnType: lowerType(e.FuncCall.Type),
			Args:       args,
		}, nil

	case e.VarRef != nil:
		return &mir.VarRef{
			Name:  e.VarRef.Name,
			VType: lowerType(e.VarRef.Type),
			ByRef: e.VarRef.ByRef,
		}, nil

	case e.Eq != nil:
		return lowerCmp(mir.Eq, e.Eq)

	case e.Ne != nil:
		return lowerCmp(mir.Ne, e.Ne)

	case e.Not != nil:
		inner, err := lowerExpr(&e.Not.Expr)
		if err != nil {
			return nil, err
		}
		return &mir.Not{Inner: inner}, nil

	default:
		return nil, fmt.Errorf("frontend: expr has no recognized tag")
	}
}

func lowerCmp(op mir.CmpOp, c *CmpExpr) (mir.Expr, error) {
	l, err := lowerExpr(&c.Lhs)
	if err != nil {
		return nil, err
	}
	r, err := lowerExpr(&c.Rhs)
	if err != nil {
		return nil, err
	}
	return &mir.Cmp{Op: op, Left: l, Right: r}, nil
}

func lowerConst(c *ConstExpr) (mir.Expr, error) {
	switch c.Type.Scalar {
	case "bool":
		var v bool
		if err := json.Unmarshal(c.Value, &v); err != nil {
			return nil, fmt.Errorf("frontend: invalid bool const: %w", err)
		}
		return mir.ConstBool{Value: v}, nil

	case "double":
		var v float64
		if err := json.Unmarshal(c.Value, &v); err != nil {
			return nil, fmt.Errorf("frontend: invalid double const: %w", err)
		}
		return mir.ConstDouble{Value: v}, nil

	case "int32":
		var v int32
		if err := json.Unmarshal(c.Value, &v); err != nil {
			return nil, fmt.Errorf("frontend: invalid int32 const: %w", err)
		}
		return mir.ConstInt32{Value: v}, nil

	case "int64":
		var v int64
		if err := json.Unmarshal(c.Value, &v); err != nil {
			return nil, fmt.Errorf("frontend: invalid int64 const: %w", err)
		}
		return mir.ConstInt64{Value: v}, nil

	case "str":
		var v string
		if err := json.Unmarshal(c.Value, &v); err != nil {
			return nil, fmt.Errorf("frontend: invalid str const: %w", err)
		}
		return mir.ConstStr{Value: v}, nil

	default:
		return nil, fmt.Errorf("frontend: const has unsupported type %q", c.Type.Scalar)
	}
}
