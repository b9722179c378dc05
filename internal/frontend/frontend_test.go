package frontend

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jbirddog/midlangc/internal/mir"
)

func sampleProgram() *mir.Program {
	return &mir.Program{Modules: []*mir.Module{{
		Name: "hello_world",
		Decls: []mir.Decl{
			&mir.FwdDecl{
				Name:       "puts",
				Visibility: mir.Public,
				ReturnType: mir.Int32Type{},
				Args:       []mir.FuncArg{{Name: "s", Type: mir.StrType{}}},
			},
			&mir.FwdDecl{
				Name:       "frexp",
				Visibility: mir.Public,
				ReturnType: mir.DoubleType{},
				Args: []mir.FuncArg{
					{Name: "x", Type: mir.DoubleType{}},
					{Name: "exp", Type: mir.PtrType{Inner: mir.Int32Type{}}},
				},
			},
			&mir.FuncDecl{
				Name:       "main",
				Visibility: mir.Public,
				ReturnType: mir.Int32Type{},
				Args:       []mir.FuncArg{},
				Body: []mir.Stmt{
					&mir.VarDecl{Name: "r", Value: &mir.FuncCall{
						Name: "puts", ReturnType: mir.Int32Type{},
						Args: []mir.Expr{mir.ConstStr{Value: "hello world"}},
					}},
					&mir.VarDecl{Name: "exp", Value: mir.ConstInt32{Value: 0}},
					&mir.FuncCallStmt{Name: "frexp", Args: []mir.Expr{
						mir.ConstDouble{Value: 2560.0},
						&mir.VarRef{Name: "exp", VType: mir.Int32Type{}, ByRef: true},
					}},
					&mir.Cond{Cases: []mir.CondCase{{
						Guard: &mir.Cmp{Op: mir.Eq, Left: &mir.VarRef{Name: "exp", VType: mir.Int32Type{}}, Right: mir.ConstInt32{Value: 0}},
						Body:  []mir.Stmt{&mir.Ret{Value: mir.ConstInt32{Value: 1}}},
					}}},
					&mir.Ret{Value: mir.ConstInt32{Value: 0}},
				},
			},
		},
	}}}
}

func TestRaiseLowerRoundTrip(t *testing.T) {
	prog := sampleProgram()

	raised := Raise(prog)
	data, err := MarshalCanonical(raised)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	got, err := Lower(&doc)
	require.NoError(t, err)

	if diff := cmp.Diff(prog, got); diff != "" {
		t.Errorf("lower(raise(M)) mismatch (-want +got):\n%s", diff)
	}
}

func TestRaiseOmitsFalseBooleans(t *testing.T) {
	prog := &mir.Program{Modules: []*mir.Module{{
		Name: "m",
		Decls: []mir.Decl{&mir.FuncDecl{
			Name: "f", Visibility: mir.Private,
			Body: []mir.Stmt{&mir.Ret{}},
		}},
	}}}

	data, err := MarshalCanonical(Raise(prog))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	modules := raw["modules"].([]any)
	decls := modules[0].(map[string]any)["decls"].([]any)
	funcdecl := decls[0].(map[string]any)["funcdecl"].(map[string]any)

	if _, present := funcdecl["variadic"]; present {
		t.Errorf("expected variadic to be omitted when false, got %v", funcdecl["variadic"])
	}
}

func TestVoidPtrRoundTrip(t *testing.T) {
	prog := &mir.Program{Modules: []*mir.Module{{
		Name: "m",
		Decls: []mir.Decl{&mir.FwdDecl{
			Name: "f", Visibility: mir.Public, ReturnType: mir.Int32Type{},
			Args: []mir.FuncArg{{Name: "p", Type: mir.PtrType{Inner: nil}}},
		}},
	}}}

	data, err := MarshalCanonical(Raise(prog))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	got, err := Lower(&doc)
	require.NoError(t, err)

	if diff := cmp.Diff(prog, got); diff != "" {
		t.Errorf("voidptr round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHelloWorld(t *testing.T) {
	src := []byte(`{
		"modules": [{
			"name": "hello_world",
			"decls": [
				{"fwddecl": {"name": "puts", "visibility": "public", "type": "int32",
					"args": [{"name": "s", "type": "str"}]}},
				{"funcdecl": {"name": "main", "visibility": "public", "type": "int32",
					"args": [],
					"stmts": [
						{"vardecl": {"name": "r", "value": {"funccall": {"name": "puts", "type": "int32",
							"args": [{"const": {"value": "hello world", "type": "str"}}]}}}},
						{"ret": {"value": {"const": {"value": 0, "type": "int32"}}}}
					]}}
			]
		}]
	}`)

	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Modules, 1)
	require.Len(t, prog.Modules[0].Decls, 2)
}

func TestParseStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"modules": []}`)...)

	prog, err := Parse(src)
	require.NoError(t, err)
	require.Empty(t, prog.Modules)
}
