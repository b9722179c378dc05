package mir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeEqualPrimitives(t *testing.T) {
	assert.True(t, TypeEqual(BoolType{}, BoolType{}))
	assert.False(t, TypeEqual(BoolType{}, Int32Type{}))
	assert.True(t, TypeEqual(nil, nil))
	assert.False(t, TypeEqual(nil, BoolType{}))
	assert.False(t, TypeEqual(Int32Type{}, nil))
}

func TestTypeEqualPtr(t *testing.T) {
	assert.True(t, TypeEqual(PtrType{Inner: Int32Type{}}, PtrType{Inner: Int32Type{}}))
	assert.False(t, TypeEqual(PtrType{Inner: Int32Type{}}, PtrType{Inner: DoubleType{}}))
	assert.True(t, TypeEqual(PtrType{Inner: nil}, PtrType{Inner: nil}))
	assert.False(t, TypeEqual(PtrType{Inner: nil}, PtrType{Inner: Int32Type{}}))
}

func TestSignatureEqual(t *testing.T) {
	sig := Signature{
		Visibility: Public,
		ReturnType: Int32Type{},
		Args:       []FuncArg{{Name: "s", Type: StrType{}}},
		Variadic:   false,
	}
	same := sig
	assert.True(t, sig.Equal(same))

	diffVis := sig
	diffVis.Visibility = Private
	assert.False(t, sig.Equal(diffVis))

	diffArgName := sig
	diffArgName.Args = []FuncArg{{Name: "t", Type: StrType{}}}
	assert.False(t, sig.Equal(diffArgName))
}
