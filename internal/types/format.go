package types

import (
	"strconv"
	"strings"
)

func (a Adt) String() string {
	if a.Item == nil {
		return "{unknown}"
	}
	args := a.TypeArgs()
	if len(args) == 0 {
		return a.Item.Name
	}
	return a.Item.Name + "<" + joinTys(args) + ">"
}

func (r Reference) String() string {
	if r.Mutable {
		return "&mut " + r.Referenced.String()
	}
	return "&" + r.Referenced.String()
}

func (p Pointer) String() string {
	if p.Mutable {
		return "*mut " + p.Referenced.String()
	}
	return "*const " + p.Referenced.String()
}

func (f Function) String() string {
	s := "fn(" + joinTys(f.Params) + ")"
	if f.Ret != nil && !Equal(f.Ret, Unit) {
		s += " -> " + f.Ret.String()
	}
	return s
}

func (t Tuple) String() string {
	if len(t.Types) == 1 {
		return "(" + t.Types[0].String() + ",)"
	}
	return "(" + joinTys(t.Types) + ")"
}

func (a Array) String() string {
	if a.Size == UnknownArraySize {
		return "[" + a.Base.String() + "; <unknown>]"
	}
	return "[" + a.Base.String() + "; " + strconv.FormatInt(a.Size, 10) + "]"
}

func (s Slice) String() string { return "[" + s.Elem.String() + "]" }

func (t TraitObject) String() string { return "dyn " + t.Trait.String() }

func (Unknown) String() string { return "{unknown}" }

func joinTys(list []Ty) string {
	parts := make([]string, len(list))
	for i, t := range list {
		if t == nil {
			parts[i] = "_"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
