// Package typecheck implements component C4: it enforces MIR well-formedness
// (invariants I1–I9 of spec §3.1) before a program may be lowered.
package typecheck

import (
	"fmt"

	"github.com/jbirddog/midlangc/internal/mir"
)

// scope maps a variable name in the current block to its declared type.
type scope map[string]mir.Type

func (s scope) clone() scope {
	out := make(scope, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Check type-checks every module in prog, in order, returning the first
// error encountered (compilation aborts on the first failure; no warnings
// are produced).
func Check(prog *mir.Program) error {
	for _, m := range prog.Modules {
		if err := checkModule(m); err != nil {
			return err
		}
	}
	return nil
}

func checkModule(m *mir.Module) error {
	fwdDecls := make(map[string]mir.Signature, len(m.Decls))

	for _, d := range m.Decls {
		sig := mir.SignatureOf(d)
		if sig.Variadic && len(sig.Args) == 0 {
			return fmt.Errorf("Func '%s' requires at least one argument since it is variadic", declName(d))
		}

		if existing, ok := fwdDecls[declName(d)]; ok {
			if !existing.Equal(sig) {
				return fmt.Errorf("FwdDecl mismatch for func '%s'", declName(d))
			}
		} else {
			fwdDecls[declName(d)] = sig
		}

		fd, ok := d.(*mir.FuncDecl)
		if !ok {
			continue
		}

		sc, err := scopeFromArgs(fd)
		if err != nil {
			return err
		}

		if err := checkStmts(fd.Body, fd.ReturnType, fwdDecls, sc); err != nil {
			return err
		}
	}

	return nil
}

func declName(d mir.Decl) string {
	switch d := d.(type) {
	case *mir.FwdDecl:
		return d.Name
	case *mir.FuncDecl:
		return d.Name
	default:
		panic(fmt.Sprintf("typecheck: unknown mir.Decl %T", d))
	}
}

// scopeFromArgs builds the top-level scope for a function body, validating
// I3 (argument names unique).
func scopeFromArgs(fd *mir.FuncDecl) (scope, error) {
	sc := make(scope, len(fd.Args))
	for _, a := range fd.Args {
		if _, exists := sc[a.Name]; exists {
			return nil, fmt.Errorf("Args for func '%s' must have unique names", fd.Name)
		}
		sc[a.Name] = a.Type
	}
	return sc, nil
}

func checkStmts(stmts []mir.Stmt, funcRet mir.Type, fwdDecls map[string]mir.Signature, sc scope) error {
	for _, s := range stmts {
		if err := checkStmt(s, funcRet, fwdDecls, sc); err != nil {
			return err
		}
	}
	return nil
}

func checkStmt(s mir.Stmt, funcRet mir.Type, fwdDecls map[string]mir.Signature, sc scope) error {
	switch s := s.(type) {
	case *mir.Cond:
		for _, cs := range s.Cases {
			if err := checkExpr(cs.Guard, fwdDecls, sc); err != nil {
				return err
			}
			if !mir.TypeEqual(cs.Guard.Type(), mir.BoolType{}) {
				return fmt.Errorf("Cond case expressions must be of type bool")
			}
			if err := checkStmts(cs.Body, funcRet, fwdDecls, sc.clone()); err != nil {
				return err
			}
		}
		return nil

	case *mir.FuncCallStmt:
		return checkCallSite(s.Name, nil, false, s.Args, fwdDecls, sc)

	case *mir.Ret:
		if funcRet == nil {
			if s.Value != nil {
				return fmt.Errorf("Return statment type does not match function type")
			}
			return nil
		}
		if s.Value == nil {
			return fmt.Errorf("Return statment type does not match function type")
		}
		if err := checkExpr(s.Value, fwdDecls, sc); err != nil {
			return err
		}
		if !mir.TypeEqual(s.Value.Type(), funcRet) {
			return fmt.Errorf("Return statment type does not match function type")
		}
		return nil

	case *mir.VarDecl:
		if err := checkExpr(s.Value, fwdDecls, sc); err != nil {
			return err
		}
		sc[s.Name] = s.Value.Type()
		return nil

	default:
		panic(fmt.Sprintf("typecheck: unknown mir.Stmt %T", s))
	}
}

func checkExpr(e mir.Expr, fwdDecls map[string]mir.Signature, sc scope) error {
	switch e := e.(type) {
	case mir.ConstBool, mir.ConstDouble, mir.ConstInt32, mir.ConstInt64, mir.ConstStr:
		return nil

	case *mir.Cmp:
		if err := checkExpr(e.Left, fwdDecls, sc); err != nil {
			return err
		}
		return checkExpr(e.Right, fwdDecls, sc)

	case *mir.Not:
		return checkExpr(e.Inner, fwdDecls, sc)

	case *mir.VarRef:
		t, ok := sc[e.Name]
		if !ok {
			return fmt.Errorf("VarRef '%s' does not have a declaration", e.Name)
		}
		if !mir.TypeEqual(t, e.VType) {
			return fmt.Errorf("VarRef '%s' type does not match its declaration", e.Name)
		}
		return nil

	case *mir.FuncCall:
		rt := e.ReturnType
		return checkCallSite(e.Name, &rt, true, e.Args, fwdDecls, sc)

	default:
		panic(fmt.Sprintf("typecheck: unknown mir.Expr %T", e))
	}
}

// checkCallSite enforces I4 (resolution, and return-type match when
// wantReturn is true), I5 (arity), and I6 (fixed-parameter type match,
// including the by-ref pointer exception) for one call site, then
// recursively checks every actual argument expression.
func checkCallSite(name string, wantReturnType *mir.Type, wantReturn bool, args []mir.Expr, fwdDecls map[string]mir.Signature, sc scope) error {
	sig, ok := fwdDecls[name]
	if !ok {
		return fmt.Errorf("Calling func '%s' which does not have a forward declaration", name)
	}

	if wantReturn && !mir.TypeEqual(sig.ReturnType, *wantReturnType) {
		return fmt.Errorf("FuncCall '%s' type does not match forward declaration", name)
	}

	if sig.Variadic {
		if len(args) < len(sig.Args) {
			return fmt.Errorf("FuncCall '%s' parameter count does not match forward declaration", name)
		}
	} else if len(args) != len(sig.Args) {
		return fmt.Errorf("FuncCall '%s' parameter count does not match forward declaration", name)
	}

	for i, arg := range args {
		if i >= len(sig.Args) {
			break // variadic tail is not type-checked
		}
		if !paramMatches(sig.Args[i].Type, arg) {
			return fmt.Errorf("FuncCall '%s' parameter %d type does not match forward declaration", name, i)
		}
	}

	for _, arg := range args {
		if err := checkExpr(arg, fwdDecls, sc); err != nil {
			return err
		}
	}

	return nil
}

// paramMatches implements I6: strict type equality, with one exception —
// a Ptr(T) parameter accepts a VarRef(_, T, by_ref=true) actual.
func paramMatches(paramType mir.Type, arg mir.Expr) bool {
	if mir.TypeEqual(paramType, arg.Type()) {
		return true
	}
	pt, ok := paramType.(mir.PtrType)
	if !ok || pt.Inner == nil {
		return false
	}
	vr, ok := arg.(*mir.VarRef)
	if !ok || !vr.ByRef {
		return false
	}
	return mir.TypeEqual(vr.VType, pt.Inner)
}
