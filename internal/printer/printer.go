// Package printer implements component C6: it renders a lowered
// []*lir.CompUnit into QBE IL text, one file per compilation unit.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jbirddog/midlangc/internal/lir"
)

const indent = "    "

// Artifact is one generated IL file: Name is "{module}.il", Text is its
// QBE syntax body.
type Artifact struct {
	Name string
	Text string
}

// GenerateIL renders units into one Artifact per compilation unit,
// preserving unit order. Output is byte-stable for a given input.
func GenerateIL(units []*lir.CompUnit) []Artifact {
	artifacts := make([]Artifact, 0, len(units))
	for _, u := range units {
		artifacts = append(artifacts, Artifact{
			Name: u.Name + ".il",
			Text: declsIL(u.Decls),
		})
	}
	return artifacts
}

func declsIL(decls []lir.Decl) string {
	var b strings.Builder
	for _, d := range decls {
		appendDeclIL(d, &b)
	}
	return b.String()
}

func appendDeclIL(d lir.Decl, b *strings.Builder) {
	switch d := d.(type) {
	case *lir.Data:
		fmt.Fprintf(b, "data $%s = { ", d.Name)
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s %s", f.Type, f.Literal)
		}
		b.WriteString(" }\n")

	case *lir.FuncDecl:
		if d.Linkage != nil {
			fmt.Fprintf(b, "%s ", *d.Linkage)
		}
		b.WriteString("function ")
		if d.ReturnType != nil {
			fmt.Fprintf(b, "%s ", *d.ReturnType)
		}
		fmt.Fprintf(b, "$%s(", d.Name)
		appendFuncArgsIL(d.Args, d.Variadic, b)
		b.WriteString(") {\n")
		appendStmtsIL(d.Body, b)
		b.WriteString("}\n")

	default:
		panic(fmt.Sprintf("printer: unknown lir.Decl %T", d))
	}
}

func appendFuncArgsIL(args []lir.FuncArg, variadic bool, b *strings.Builder) {
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s %%%s", a.Type, a.Name)
	}
	if variadic {
		b.WriteString(", ...")
	}
}

func appendStmtsIL(stmts []lir.Stmt, b *strings.Builder) {
	for _, s := range stmts {
		appendStmtIL(s, b)
		b.WriteString("\n")
	}
}

func appendStmtIL(s lir.Stmt, b *strings.Builder) {
	switch s := s.(type) {
	case lir.Lbl:
		fmt.Fprintf(b, "@%s", s.Name)

	case lir.Jmp:
		fmt.Fprintf(b, "%sjmp @%s", indent, s.Label)

	case lir.Jnz:
		fmt.Fprintf(b, "%sjnz %s, @%s, @%s", indent, valueIL(s.Cond), s.TrueLabel, s.FalseLabel)

	case lir.FuncCallStmt:
		fmt.Fprintf(b, "%s%s", indent, funcCallIL(s.Name, s.Args))

	case lir.Ret:
		if s.Value == nil {
			fmt.Fprintf(b, "%sret", indent)
		} else {
			fmt.Fprintf(b, "%sret %s", indent, valueIL(s.Value))
		}

	case lir.Store:
		fmt.Fprintf(b, "%sstore%s %s, %s", indent, s.Type, valueIL(s.Src), valueIL(s.Dest))

	case lir.VarDecl:
		fmt.Fprintf(b, "%s%s%s =%s %s", indent, s.Scope, s.Name, s.Expr.Type(), exprIL(s.Expr))

	default:
		panic(fmt.Sprintf("printer: unknown lir.Stmt %T", s))
	}
}

func exprIL(e lir.Expr) string {
	switch e := e.(type) {
	case lir.ValueExpr:
		prefix := ""
		if isScalarConst(e.Value) {
			prefix = "copy "
		}
		return prefix + valueIL(e.Value)

	case lir.FuncCallExpr:
		return funcCallIL(e.Name, e.Args)

	case lir.CmpExpr:
		return fmt.Sprintf("c%s%s %s, %s", e.Op, e.Left.Type(), valueIL(e.Left), valueIL(e.Right))

	case lir.LoadExpr:
		return fmt.Sprintf("load%s %s", e.MemType, valueIL(e.Addr))

	case lir.SubExpr:
		return fmt.Sprintf("sub %s, %s", valueIL(e.A), valueIL(e.B))

	case lir.Alloc8Expr:
		return fmt.Sprintf("alloc8 %d", e.NBytes)

	default:
		panic(fmt.Sprintf("printer: unknown lir.Expr %T", e))
	}
}

func funcCallIL(name string, args []lir.Value) string {
	var b strings.Builder
	fmt.Fprintf(&b, "call $%s(", name)
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", a.Type(), valueIL(a))
	}
	b.WriteString(")")
	return b.String()
}

func isScalarConst(v lir.Value) bool {
	switch v.(type) {
	case lir.ConstW, lir.ConstL, lir.ConstD:
		return true
	default:
		return false
	}
}

func valueIL(v lir.Value) string {
	switch v := v.(type) {
	case lir.ConstW:
		return strconv.FormatInt(int64(v.Value), 10)
	case lir.ConstL:
		return strconv.FormatInt(v.Value, 10)
	case lir.ConstD:
		return "d_" + strconv.FormatFloat(v.Value, 'g', -1, 64)
	case lir.VarRef:
		return fmt.Sprintf("%s%s", v.Scope, v.Name)
	default:
		panic(fmt.Sprintf("printer: unknown lir.Value %T", v))
	}
}
