package mir

// Type is the sum type of MIR types: Bool, Double, Int32, Int64, Str,
// Ptr(inner). Ptr(nil) denotes an untyped pointer ("voidptr" in JSON).
type Type interface {
	typeNode()
	String() string
}

type BoolType struct{}

func (BoolType) typeNode()      {}
func (BoolType) String() string { return "bool" }

type DoubleType struct{}

func (DoubleType) typeNode()      {}
func (DoubleType) String() string { return "double" }

type Int32Type struct{}

func (Int32Type) typeNode()      {}
func (Int32Type) String() string { return "int32" }

type Int64Type struct{}

func (Int64Type) typeNode()      {}
func (Int64Type) String() string { return "int64" }

type StrType struct{}

func (StrType) typeNode()      {}
func (StrType) String() string { return "str" }

// PtrType is a pointer to Inner, or an untyped pointer when Inner is nil.
type PtrType struct {
	Inner Type
}

func (PtrType) typeNode() {}
func (p PtrType) String() string {
	if p.Inner == nil {
		return "ptr(void)"
	}
	return "ptr(" + p.Inner.String() + ")"
}

// TypeEqual reports structural equality between two (possibly nil) Types.
// A nil Type denotes "none" (void) and only equals another nil Type.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case BoolType:
		_, ok := b.(BoolType)
		return ok
	case DoubleType:
		_, ok := b.(DoubleType)
		return ok
	case Int32Type:
		_, ok := b.(Int32Type)
		return ok
	case Int64Type:
		_, ok := b.(Int64Type)
		return ok
	case StrType:
		_, ok := b.(StrType)
		return ok
	case PtrType:
		bp, ok := b.(PtrType)
		if !ok {
			return false
		}
		if a.Inner == nil || bp.Inner == nil {
			return a.Inner == nil && bp.Inner == nil
		}
		return TypeEqual(a.Inner, bp.Inner)
	default:
		panic("mir: unknown Type variant")
	}
}
