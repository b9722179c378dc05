// Package lowering implements component C5 (MIR→LIR lowering) on top of the
// per-module Context (component C3): it flattens nested MIR expressions into
// a statement-and-temporary form, expands Cond into labeled control flow,
// and materializes by-ref stack slots for Ptr(T) actuals.
package lowering

import (
	"fmt"

	"github.com/jbirddog/midlangc/internal/lir"
	"github.com/jbirddog/midlangc/internal/mir"
)

// Lower maps a fully type-checked mir.Program into one lir.CompUnit per
// module, preserving module and declaration order.
func Lower(prog *mir.Program) []*lir.CompUnit {
	units := make([]*lir.CompUnit, 0, len(prog.Modules))
	for _, m := range prog.Modules {
		units = append(units, lowerModule(m))
	}
	return units
}

func lowerModule(m *mir.Module) *lir.CompUnit {
	ctx := New(m.Name)

	funcDecls := make([]lir.Decl, 0, len(m.Decls))
	for _, d := range m.Decls {
		fd, ok := d.(*mir.FuncDecl)
		if !ok {
			continue // FwdDecl carries no code
		}
		funcDecls = append(funcDecls, lowerFuncDecl(fd, ctx))
	}

	decls := make([]lir.Decl, 0, len(ctx.Decls())+len(funcDecls))
	decls = append(decls, ctx.Decls()...)
	decls = append(decls, funcDecls...)

	return &lir.CompUnit{Name: m.Name, Decls: decls}
}

func lowerFuncDecl(fd *mir.FuncDecl, ctx *Context) *lir.FuncDecl {
	body := make([]lir.Stmt, 0, len(fd.Body)*2+1)
	body = append(body, lir.Lbl{Name: "start"})
	body = lowerStmts(fd.Body, body, ctx)

	return &lir.FuncDecl{
		Name:       fd.Name,
		Linkage:    lowerLinkage(fd.Visibility),
		ReturnType: lowerOptType(fd.ReturnType),
		Args:       lowerArgs(fd.Args),
		Variadic:   fd.Variadic,
		Body:       body,
	}
}

func lowerArgs(args []mir.FuncArg) []lir.FuncArg {
	out := make([]lir.FuncArg, 0, len(args))
	for _, a := range args {
		out = append(out, lir.FuncArg{Name: a.Name, Type: lowerType(a.Type)})
	}
	return out
}

func lowerLinkage(v mir.Visibility) *lir.Linkage {
	if v == mir.Public {
		l := lir.Export
		return &l
	}
	return nil
}

func lowerOptType(t mir.Type) *lir.Type {
	if t == nil {
		return nil
	}
	lt := lowerType(t)
	return &lt
}

// lowerType implements the MIR→LIR type mapping: Double→D; Bool,
// Int32→W; Int64, Str, Ptr(_)→L.
func lowerType(t mir.Type) lir.Type {
	switch t.(type) {
	case mir.DoubleType:
		return lir.D
	case mir.BoolType, mir.Int32Type:
		return lir.W
	case mir.Int64Type, mir.StrType, mir.PtrType:
		return lir.L
	default:
		panic(fmt.Sprintf("lowering: unknown mir.Type %T", t))
	}
}

// lowerStmts lowers m_stmts, appending the resulting lir.Stmts to stmts
// (the per-statement by-ref read-back buffering described in §4.2), and
// returns the extended slice.
func lowerStmts(mStmts []mir.Stmt, stmts []lir.Stmt, ctx *Context) []lir.Stmt {
	for _, s := range mStmts {
		ctx.PushTmpRefs()
		stmts = lowerStmt(s, stmts, ctx)
		for _, ref := range ctx.PopTmpRefs() {
			stmts = append(stmts, lir.VarDecl{
				Name:  ref.VarName,
				Scope: lir.Func,
				Expr: lir.LoadExpr{
					ResultType: ref.VarType,
					MemType:    ref.VarType,
					Addr:       lir.VarRef{Name: ref.RefName, VType: lir.L, Scope: lir.Func},
				},
			})
		}
	}
	return stmts
}

func lowerStmt(s mir.Stmt, stmts []lir.Stmt, ctx *Context) []lir.Stmt {
	switch s := s.(type) {
	case *mir.Cond:
		return lowerCond(s, stmts, ctx)
	case *mir.FuncCallStmt:
		args, stmts2 := lowerExprsToValues(s.Args, stmts, ctx)
		stmts = stmts2
		return append(stmts, lir.FuncCallStmt{Name: s.Name, Args: args})
	case *mir.Ret:
		if s.Value == nil {
			return append(stmts, lir.Ret{Value: nil})
		}
		v, stmts2 := lowerExprToValue(s.Value, stmts, ctx)
		stmts = stmts2
		return append(stmts, lir.Ret{Value: v})
	case *mir.VarDecl:
		e, stmts2 := lowerExpr(s.Value, stmts, ctx)
		stmts = stmts2
		return append(stmts, lir.VarDecl{Name: s.Name, Scope: lir.Func, Expr: e})
	default:
		panic(fmt.Sprintf("lowering: unknown mir.Stmt %T", s))
	}
}

func lowerCond(c *mir.Cond, stmts []lir.Stmt, ctx *Context) []lir.Stmt {
	lblPrefix := ctx.UniqName("cond")
	endLbl := lblPrefix + "_end"

	for i, cs := range c.Cases {
		v, stmts2 := lowerExprToValue(cs.Guard, stmts, ctx)
		stmts = stmts2

		caseLbl := fmt.Sprintf("%s_case_%d", lblPrefix, i)
		caseEndLbl := fmt.Sprintf("%s_case_%d_end", lblPrefix, i)

		stmts = append(stmts, lir.Jnz{Cond: v, TrueLabel: caseLbl, FalseLabel: caseEndLbl})
		stmts = append(stmts, lir.Lbl{Name: caseLbl})
		stmts = lowerStmts(cs.Body, stmts, ctx)
		stmts = append(stmts, lir.Jmp{Label: endLbl})
		stmts = append(stmts, lir.Lbl{Name: caseEndLbl})
	}

	return append(stmts, lir.Lbl{Name: endLbl})
}

// lowerExprsToValues lowers each expr to a Value in order, threading the
// growing statement list through so earlier spills are visible to later
// expressions.
func lowerExprsToValues(exprs []mir.Expr, stmts []lir.Stmt, ctx *Context) ([]lir.Value, []lir.Stmt) {
	values := make([]lir.Value, 0, len(exprs))
	for _, e := range exprs {
		var v lir.Value
		v, stmts = lowerExprToValue(e, stmts, ctx)
		values = append(values, v)
	}
	return values, stmts
}

// lowerExprToValue lowers expr to an operand, spilling any compound result
// into a fresh temporary.
func lowerExprToValue(expr mir.Expr, stmts []lir.Stmt, ctx *Context) (lir.Value, []lir.Stmt) {
	switch e := expr.(type) {
	case mir.ConstBool:
		if e.Value {
			return lir.ConstW{Value: 1}, stmts
		}
		return lir.ConstW{Value: 0}, stmts
	case mir.ConstDouble:
		return lir.ConstD{Value: e.Value}, stmts
	case mir.ConstInt32:
		return lir.ConstW{Value: e.Value}, stmts
	case mir.ConstInt64:
		return lir.ConstL{Value: e.Value}, stmts
	case mir.ConstStr:
		sym := ctx.NameForStr(e.Value)
		return lir.VarRef{Name: sym, VType: lir.L, Scope: lir.Global}, stmts
	case *mir.VarRef:
		if !e.ByRef {
			return lir.VarRef{Name: e.Name, VType: lowerType(e.VType), Scope: lir.Func}, stmts
		}
		return materializeByRef(e, stmts, ctx)
	case *mir.Cmp:
		l, s1 := lowerExprToValue(e.Left, stmts, ctx)
		r, s2 := lowerExprToValue(e.Right, s1, ctx)
		t := ctx.UniqName("cmp")
		s2 = append(s2, lir.VarDecl{Name: t, Scope: lir.Func, Expr: lir.CmpExpr{Op: lowerOp(e.Op), Left: l, Right: r}})
		return lir.VarRef{Name: t, VType: lir.W, Scope: lir.Func}, s2
	case *mir.Not:
		v, s1 := lowerExprToValue(e.Inner, stmts, ctx)
		t := ctx.UniqName("not")
		s1 = append(s1, lir.VarDecl{Name: t, Scope: lir.Func, Expr: lir.SubExpr{A: lir.ConstW{Value: 1}, B: v}})
		return lir.VarRef{Name: t, VType: lir.W, Scope: lir.Func}, s1
	case *mir.FuncCall:
		callExpr, s1 := lowerFuncCall(e, stmts, ctx)
		retType := callExpr.Type()
		t := ctx.UniqName("arg")
		s1 = append(s1, lir.VarDecl{Name: t, Scope: lir.Func, Expr: callExpr})
		return lir.VarRef{Name: t, VType: retType, Scope: lir.Func}, s1
	default:
		panic(fmt.Sprintf("lowering: unknown mir.Expr %T", expr))
	}
}

// materializeByRef implements the by-ref argument protocol: allocate an
// 8-byte stack slot, store the variable's current value into it, record a
// post-statement read-back, and return the slot's address.
func materializeByRef(v *mir.VarRef, stmts []lir.Stmt, ctx *Context) (lir.Value, []lir.Stmt) {
	ref := ctx.UniqName("ref")
	vt := lowerType(v.VType)

	ctx.AddTmpRef(TmpRef{RefName: ref, VarName: v.Name, VarType: vt})

	stmts = append(stmts, lir.VarDecl{Name: ref, Scope: lir.Func, Expr: lir.Alloc8Expr{NBytes: 8}})
	stmts = append(stmts, lir.Store{
		Type: vt,
		Src:  lir.VarRef{Name: v.Name, VType: vt, Scope: lir.Func},
		Dest: lir.VarRef{Name: ref, VType: lir.L, Scope: lir.Func},
	})

	return lir.VarRef{Name: ref, VType: lir.L, Scope: lir.Func}, stmts
}

// lowerExpr lowers expr to a full Expr (not necessarily a bare Value),
// preserving Cmp/Sub/FuncCall heads so the caller can emit a VarDecl under
// a user-chosen or synthetic name, as appropriate: scalars and var-refs
// lower to Expr::Value(v), while Cmp/Not/FuncCall are returned unspilled.
func lowerExpr(expr mir.Expr, stmts []lir.Stmt, ctx *Context) (lir.Expr, []lir.Stmt) {
	switch e := expr.(type) {
	case *mir.Cmp:
		l, s1 := lowerExprToValue(e.Left, stmts, ctx)
		r, s2 := lowerExprToValue(e.Right, s1, ctx)
		return lir.CmpExpr{Op: lowerOp(e.Op), Left: l, Right: r}, s2
	case *mir.Not:
		v, s1 := lowerExprToValue(e.Inner, stmts, ctx)
		return lir.SubExpr{A: lir.ConstW{Value: 1}, B: v}, s1
	case *mir.FuncCall:
		return lowerFuncCall(e, stmts, ctx)
	default:
		v, s := lowerExprToValue(expr, stmts, ctx)
		return lir.ValueExpr{Value: v}, s
	}
}

func lowerFuncCall(e *mir.FuncCall, stmts []lir.Stmt, ctx *Context) (lir.Expr, []lir.Stmt) {
	values, s := lowerExprsToValues(e.Args, stmts, ctx)
	return lir.FuncCallExpr{Name: e.Name, ReturnType: lowerType(e.ReturnType), Args: values}, s
}

func lowerOp(op mir.CmpOp) lir.Op {
	if op == mir.Eq {
		return lir.OpEq
	}
	return lir.OpNe
}
