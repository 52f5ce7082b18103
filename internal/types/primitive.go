package types

// PrimKind identifies a builtin scalar type.
type PrimKind uint8

const (
	PrimInvalid PrimKind = iota
	PrimBool
	PrimChar
	PrimStr
	PrimUnit
	PrimNever
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimI128
	PrimIsize
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimUsize
	PrimF32
	PrimF64
)

var primNames = [...]string{
	PrimInvalid: "<invalid>",
	PrimBool:    "bool",
	PrimChar:    "char",
	PrimStr:     "str",
	PrimUnit:    "()",
	PrimNever:   "!",
	PrimI8:      "i8",
	PrimI16:     "i16",
	PrimI32:     "i32",
	PrimI64:     "i64",
	PrimI128:    "i128",
	PrimIsize:   "isize",
	PrimU8:      "u8",
	PrimU16:     "u16",
	PrimU32:     "u32",
	PrimU64:     "u64",
	PrimU128:    "u128",
	PrimUsize:   "usize",
	PrimF32:     "f32",
	PrimF64:     "f64",
}

// Primitive is a builtin scalar type. Primitive values are comparable with ==.
type Primitive struct {
	Prim PrimKind
}

func (Primitive) Kind() Kind { return KindPrimitive }
func (Primitive) isTy()      {}

func (p Primitive) String() string {
	if int(p.Prim) < len(primNames) {
		return primNames[p.Prim]
	}
	return primNames[PrimInvalid]
}

// IsInteger reports signed and unsigned integer types.
func (p Primitive) IsInteger() bool { return p.Prim >= PrimI8 && p.Prim <= PrimUsize }

// IsFloat reports f32 and f64.
func (p Primitive) IsFloat() bool { return p.Prim == PrimF32 || p.Prim == PrimF64 }

// IsNumeric reports integers and floats.
func (p Primitive) IsNumeric() bool { return p.IsInteger() || p.IsFloat() }

var (
	Bool  = Primitive{PrimBool}
	Char  = Primitive{PrimChar}
	Str   = Primitive{PrimStr}
	Unit  = Primitive{PrimUnit}
	Never = Primitive{PrimNever}
	I8    = Primitive{PrimI8}
	I16   = Primitive{PrimI16}
	I32   = Primitive{PrimI32}
	I64   = Primitive{PrimI64}
	I128  = Primitive{PrimI128}
	Isize = Primitive{PrimIsize}
	U8    = Primitive{PrimU8}
	U16   = Primitive{PrimU16}
	U32   = Primitive{PrimU32}
	U64   = Primitive{PrimU64}
	U128  = Primitive{PrimU128}
	Usize = Primitive{PrimUsize}
	F32   = Primitive{PrimF32}
	F64   = Primitive{PrimF64}
)

// PrimitiveByName resolves a primitive spelled as in source ("i32", "()", ...).
func PrimitiveByName(name string) (Primitive, bool) {
	for kind, n := range primNames {
		if kind == int(PrimInvalid) {
			continue
		}
		if n == name {
			return Primitive{PrimKind(kind)}, true
		}
	}
	return Primitive{}, false
}
