package printer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jbirddog/midlangc/internal/lir"
)

// updateGoldens mirrors testutil.UpdateGoldens: set UPDATE_GOLDENS=true to
// rewrite testdata/*.il.golden from the current printer output.
var updateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

func assertGolden(t *testing.T, name, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".il.golden")

	if updateGoldens {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nrun with UPDATE_GOLDENS=true to create", path)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("golden mismatch for %s (-want +got):\n%s", name, diff)
	}
}

func strType(t lir.Type) *lir.Type { return &t }

func strLinkage(l lir.Linkage) *lir.Linkage { return &l }

func TestHelloWorld(t *testing.T) {
	units := []*lir.CompUnit{{
		Name: "hello_world",
		Decls: []lir.Decl{
			&lir.Data{
				Name: "hello_world_str0",
				Fields: []lir.DataField{
					{Type: lir.B, Literal: `"hello world"`},
					{Type: lir.B, Literal: "0"},
				},
			},
			&lir.FuncDecl{
				Name:       "puts",
				Linkage:    strLinkage(lir.Export),
				ReturnType: strType(lir.W),
				Args:       []lir.FuncArg{{Name: "s", Type: lir.L}},
			},
			&lir.FuncDecl{
				Name:       "main",
				Linkage:    strLinkage(lir.Export),
				ReturnType: strType(lir.W),
				Body: []lir.Stmt{
					lir.Lbl{Name: "start"},
					lir.VarDecl{Name: "r", Scope: lir.Func, Expr: lir.FuncCallExpr{
						Name: "puts", ReturnType: lir.W,
						Args: []lir.Value{lir.VarRef{Name: "hello_world_str0", VType: lir.L, Scope: lir.Global}},
					}},
					lir.Ret{Value: lir.ConstW{Value: 0}},
				},
			},
		},
	}}

	artifacts := GenerateIL(units)
	if len(artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(artifacts))
	}
	if artifacts[0].Name != "hello_world.il" {
		t.Errorf("got filename %q, want hello_world.il", artifacts[0].Name)
	}
	assertGolden(t, "hello_world", artifacts[0].Text)
}

func TestVoidMain(t *testing.T) {
	units := []*lir.CompUnit{{
		Name: "void_main",
		Decls: []lir.Decl{
			&lir.FuncDecl{
				Name: "main",
				Body: []lir.Stmt{
					lir.Lbl{Name: "start"},
					lir.Ret{},
				},
			},
		},
	}}

	artifacts := GenerateIL(units)
	assertGolden(t, "void_main", artifacts[0].Text)
}

func TestByRefFrexp(t *testing.T) {
	units := []*lir.CompUnit{{
		Name: "frexp",
		Decls: []lir.Decl{
			&lir.Data{
				Name: "frexp_str0",
				Fields: []lir.DataField{
					{Type: lir.B, Literal: `"%d\n"`},
					{Type: lir.B, Literal: "0"},
				},
			},
			&lir.FuncDecl{
				Name:       "main",
				Linkage:    strLinkage(lir.Export),
				ReturnType: strType(lir.W),
				Body: []lir.Stmt{
					lir.Lbl{Name: "start"},
					lir.VarDecl{Name: "exp", Scope: lir.Func, Expr: lir.ValueExpr{Value: lir.ConstW{Value: 0}}},
					lir.VarDecl{Name: "..ref..0", Scope: lir.Func, Expr: lir.Alloc8Expr{NBytes: 8}},
					lir.Store{Type: lir.W, Src: lir.VarRef{Name: "exp", VType: lir.W, Scope: lir.Func}, Dest: lir.VarRef{Name: "..ref..0", VType: lir.L, Scope: lir.Func}},
					lir.FuncCallStmt{Name: "frexp", Args: []lir.Value{
						lir.ConstD{Value: 2560.0},
						lir.VarRef{Name: "..ref..0", VType: lir.L, Scope: lir.Func},
					}},
					lir.VarDecl{Name: "exp", Scope: lir.Func, Expr: lir.LoadExpr{
						ResultType: lir.W, MemType: lir.W,
						Addr: lir.VarRef{Name: "..ref..0", VType: lir.L, Scope: lir.Func},
					}},
					lir.FuncCallStmt{Name: "printf", Args: []lir.Value{
						lir.VarRef{Name: "frexp_str0", VType: lir.L, Scope: lir.Global},
						lir.VarRef{Name: "exp", VType: lir.W, Scope: lir.Func},
					}},
					lir.Ret{Value: lir.ConstW{Value: 0}},
				},
			},
		},
	}}

	artifacts := GenerateIL(units)
	assertGolden(t, "frexp", artifacts[0].Text)
}

func TestCopyPrefixForScalarConst(t *testing.T) {
	units := []*lir.CompUnit{{
		Name: "copy_literal",
		Decls: []lir.Decl{
			&lir.FuncDecl{
				Name:       "main",
				ReturnType: strType(lir.W),
				Body: []lir.Stmt{
					lir.Lbl{Name: "start"},
					lir.VarDecl{Name: "n", Scope: lir.Func, Expr: lir.ValueExpr{Value: lir.ConstW{Value: 42}}},
					lir.Ret{Value: lir.VarRef{Name: "n", VType: lir.W, Scope: lir.Func}},
				},
			},
		},
	}}

	artifacts := GenerateIL(units)
	assertGolden(t, "copy_literal", artifacts[0].Text)
}
