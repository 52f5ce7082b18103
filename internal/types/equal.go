package types

import (
	"strconv"
	"strings"
)

// Equal reports structural equality. Inference variables compare by id and
// type parameters by identity.
func Equal(a, b Ty) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Primitive:
		return at == b.(Primitive)
	case Adt:
		bt := b.(Adt)
		return at.Item == bt.Item && EqualSubst(at.Subst, bt.Subst)
	case Reference:
		bt := b.(Reference)
		return at.Mutable == bt.Mutable && Equal(at.Referenced, bt.Referenced)
	case Pointer:
		bt := b.(Pointer)
		return at.Mutable == bt.Mutable && Equal(at.Referenced, bt.Referenced)
	case Function:
		bt := b.(Function)
		return equalList(at.Params, bt.Params) && Equal(at.Ret, bt.Ret)
	case Tuple:
		return equalList(at.Types, b.(Tuple).Types)
	case Array:
		bt := b.(Array)
		return at.Size == bt.Size && Equal(at.Base, bt.Base)
	case Slice:
		return Equal(at.Elem, b.(Slice).Elem)
	case TraitObject:
		return at.Trait.Equal(b.(TraitObject).Trait)
	case TypeParameter:
		return at.Key() == b.(TypeParameter).Key()
	case Infer:
		return at == b.(Infer)
	case FreshInfer:
		return at == b.(FreshInfer)
	case Unknown:
		return true
	}
	return false
}

func equalList(a, b []Ty) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Key returns a string that is equal for two types iff Equal holds. It is
// meant for map keys, not for display.
func Key(t Ty) string {
	var sb strings.Builder
	writeKey(&sb, t)
	return sb.String()
}

// TraitRefKey is Key for trait refs.
func TraitRefKey(r TraitRef) string {
	var sb strings.Builder
	writeKey(&sb, r.SelfTy)
	sb.WriteString(" as ")
	writeBoundKey(&sb, r.Trait)
	return sb.String()
}

func writeKey(sb *strings.Builder, t Ty) {
	switch tt := t.(type) {
	case nil:
		sb.WriteString("nil")
	case Primitive:
		sb.WriteString(tt.String())
	case Adt:
		sb.WriteString("A")
		writeID(sb, itemID(tt.Item))
		writeSubstKey(sb, tt.Subst)
	case Reference:
		if tt.Mutable {
			sb.WriteString("&mut ")
		} else {
			sb.WriteString("&")
		}
		writeKey(sb, tt.Referenced)
	case Pointer:
		if tt.Mutable {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		writeKey(sb, tt.Referenced)
	case Function:
		sb.WriteString("fn")
		writeListKey(sb, tt.Params)
		sb.WriteString("->")
		writeKey(sb, tt.Ret)
	case Tuple:
		writeListKey(sb, tt.Types)
	case Array:
		sb.WriteString("[")
		writeKey(sb, tt.Base)
		sb.WriteString(";")
		sb.WriteString(strconv.FormatInt(tt.Size, 10))
		sb.WriteString("]")
	case Slice:
		sb.WriteString("[")
		writeKey(sb, tt.Elem)
		sb.WriteString("]")
	case TraitObject:
		sb.WriteString("dyn ")
		writeBoundKey(sb, tt.Trait)
	case TypeParameter:
		writeParamKey(sb, tt)
	case Infer:
		sb.WriteString(tt.String())
	case FreshInfer:
		sb.WriteString(tt.String())
	case Unknown:
		sb.WriteString("{unknown}")
	}
}

func writeListKey(sb *strings.Builder, list []Ty) {
	sb.WriteString("(")
	for i, t := range list {
		if i > 0 {
			sb.WriteString(",")
		}
		writeKey(sb, t)
	}
	sb.WriteString(")")
}

func writeParamKey(sb *strings.Builder, p TypeParameter) {
	switch p.Param {
	case ParamSelf:
		sb.WriteString("Self")
	case ParamNamed:
		sb.WriteString("P")
		writeID(sb, declID(p.Decl))
		if p.Decl != nil {
			sb.WriteString(":" + p.Decl.Name)
		}
	case ParamAssociated:
		sb.WriteString("<")
		writeKey(sb, p.Base)
		sb.WriteString(">::T")
		writeID(sb, aliasID(p.Target))
	}
}

func writeSubstKey(sb *strings.Builder, s Substitution) {
	if len(s) == 0 {
		return
	}
	sb.WriteString("{")
	for i, e := range s.Entries() {
		if i > 0 {
			sb.WriteString(",")
		}
		writeParamKey(sb, e.Param)
		sb.WriteString("=")
		writeKey(sb, e.Ty)
	}
	sb.WriteString("}")
}

func writeBoundKey(sb *strings.Builder, b BoundElement) {
	sb.WriteString("T")
	if b.Trait != nil {
		writeID(sb, b.Trait.ID)
		sb.WriteString(":" + b.Trait.Name)
	}
	writeSubstKey(sb, b.Subst)
}

func writeID(sb *strings.Builder, id ItemID) {
	sb.WriteString("#")
	sb.WriteString(strconv.FormatUint(uint64(id), 10))
}

func itemID(item *AdtItem) ItemID {
	if item == nil {
		return NoItemID
	}
	return item.ID
}
