package world

import (
	"fmt"
	"strconv"
	"strings"

	"traitres/internal/types"
)

// scope resolves names inside one declaration or query.
type scope struct {
	b      *builder
	params map[string]*types.TypeParamDecl
	// self is what `Self` means here; nil outside traits and impls.
	self types.Ty
	// owner is the trait whose associated types `Self::Name` may refer to.
	owner *types.TraitItem
	// infer allows `_`, {integer} and {float}.
	infer bool
}

type parser struct {
	src  string
	toks []token
	pos  int
	sc   *scope
}

func newParser(sc *scope, src string) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", src, err)
	}
	return &parser{src: src, toks: toks, sc: sc}, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if !p.accept(text) {
		return p.errorf("expected %q, found %s", text, p.peek())
	}
	return nil
}

func (p *parser) ident() (string, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return "", p.errorf("expected identifier, found %s", t)
	}
	p.next()
	return t.text, nil
}

func (p *parser) end() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.errorf("unexpected %s", t)
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%q at offset %d: %s", p.src, p.peek().pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseType() (types.Ty, error) {
	tok := p.peek()
	if tok.kind == tokPunct {
		switch tok.text {
		case "&":
			p.next()
			if p.peek().kind == tokLifetime {
				p.next()
			}
			mut := p.accept("mut")
			inner, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return types.Reference{Referenced: inner, Mutable: mut}, nil
		case "*":
			p.next()
			var mut bool
			switch {
			case p.accept("mut"):
				mut = true
			case p.accept("const"):
			default:
				return nil, p.errorf("expected const or mut after *")
			}
			inner, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return types.Pointer{Referenced: inner, Mutable: mut}, nil
		case "[":
			return p.parseArrayOrSlice()
		case "(":
			return p.parseTuple()
		case "!":
			p.next()
			return types.Never, nil
		case "{":
			return p.parseBraced()
		case "<":
			return p.parseQualifiedPath()
		}
		return nil, p.errorf("expected a type, found %s", tok)
	}
	if tok.kind != tokIdent {
		return nil, p.errorf("expected a type, found %s", tok)
	}
	switch tok.text {
	case "fn":
		p.next()
		if err := p.expect("("); err != nil {
			return nil, err
		}
		params, err := p.parseTypeList(")")
		if err != nil {
			return nil, err
		}
		var ret types.Ty = types.Unit
		if p.accept("->") {
			if ret, err = p.parseType(); err != nil {
				return nil, err
			}
		}
		return types.Function{Params: params, Ret: ret}, nil
	case "dyn":
		p.next()
		b, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		return types.TraitObject{Trait: b}, nil
	case "_":
		if !p.sc.infer {
			return nil, p.errorf("type placeholder is only allowed in queries")
		}
		p.next()
		return types.NewTyVar(), nil
	}
	return p.parsePathType()
}

func (p *parser) parseArrayOrSlice() (types.Ty, error) {
	p.next() // [
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.accept(";") {
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return types.Slice{Elem: elem}, nil
	}
	size := types.UnknownArraySize
	switch t := p.peek(); {
	case t.kind == tokInt:
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf("array length: %v", err)
		}
		size = n
	case t.kind == tokIdent && t.text == "_":
	default:
		return nil, p.errorf("expected array length, found %s", t)
	}
	p.next()
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	return types.Array{Base: elem, Size: size}, nil
}

func (p *parser) parseTuple() (types.Ty, error) {
	p.next() // (
	if p.accept(")") {
		return types.Unit, nil
	}
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept(")") {
		return first, nil
	}
	list := []types.Ty{first}
	for p.accept(",") {
		if p.is(")") {
			break
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return types.Tuple{Types: list}, nil
}

// parseBraced reads the placeholders printed for inference variables.
func (p *parser) parseBraced() (types.Ty, error) {
	p.next() // {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	switch name {
	case "unknown":
		return types.Unknown{}, nil
	case "integer", "float":
		if !p.sc.infer {
			return nil, p.errorf("{%s} is only allowed in queries", name)
		}
		if name == "integer" {
			return types.NewIntVar(), nil
		}
		return types.NewFloatVar(), nil
	}
	return nil, p.errorf("unknown placeholder {%s}", name)
}

// parseQualifiedPath reads <T as Trait>::Name.
func (p *parser) parseQualifiedPath() (types.Ty, error) {
	p.next() // <
	base, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect("as"); err != nil {
		return nil, err
	}
	bound, err := p.parseBound()
	if err != nil {
		return nil, err
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	if err := p.expect("::"); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	alias := bound.Trait.FindAssociatedType(name)
	if alias == nil {
		return nil, p.errorf("trait %s has no associated type %s", bound.Trait.Name, name)
	}
	return types.AssociatedParamOf(base, alias), nil
}

func (p *parser) parseTypeList(closing string) ([]types.Ty, error) {
	var out []types.Ty
	for !p.is(closing) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if !p.accept(",") {
			break
		}
	}
	if err := p.expect(closing); err != nil {
		return nil, err
	}
	return out, nil
}

// parseGenericArgs reads the arguments after an opening '<'. Lifetimes are
// skipped; `Name = Type` pairs are returned separately.
func (p *parser) parseGenericArgs() ([]types.Ty, []assocArg, error) {
	var positional []types.Ty
	var named []assocArg
	for !p.is(">") {
		switch {
		case p.peek().kind == tokLifetime:
			p.next()
		case p.peek().kind == tokIdent && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == "=":
			name := p.next().text
			p.next()
			t, err := p.parseType()
			if err != nil {
				return nil, nil, err
			}
			named = append(named, assocArg{name: name, ty: t})
		default:
			t, err := p.parseType()
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, t)
		}
		if !p.accept(",") {
			break
		}
	}
	if err := p.expect(">"); err != nil {
		return nil, nil, err
	}
	return positional, named, nil
}

type assocArg struct {
	name string
	ty   types.Ty
}

func (p *parser) parsePath() ([]string, error) {
	first, err := p.ident()
	if err != nil {
		return nil, err
	}
	segs := []string{first}
	for p.is("::") && p.peekAt(1).kind == tokIdent {
		p.next()
		segs = append(segs, p.next().text)
	}
	return segs, nil
}

func (p *parser) parsePathType() (types.Ty, error) {
	segs, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	var args []types.Ty
	if p.accept("<") {
		var named []assocArg
		if args, named, err = p.parseGenericArgs(); err != nil {
			return nil, err
		}
		if len(named) > 0 {
			return nil, p.errorf("associated type binding %s outside of a trait bound", named[0].name)
		}
	}
	if len(segs) == 1 {
		return p.namedType(segs[0], args)
	}
	if len(segs) == 2 && len(args) == 0 {
		if base, ok := p.shorthandBase(segs[0]); ok {
			return p.assocShorthand(base, segs[1])
		}
	}
	path := strings.Join(segs, "::")
	if adt := p.sc.b.p.AdtByPath(path); adt != nil {
		return p.instantiate(adt, args)
	}
	return nil, p.errorf("unknown type %s", path)
}

func (p *parser) namedType(name string, args []types.Ty) (types.Ty, error) {
	simple := func(t types.Ty) (types.Ty, error) {
		if len(args) > 0 {
			return nil, p.errorf("%s takes no type arguments", name)
		}
		return t, nil
	}
	if name == "Self" {
		if p.sc.self == nil {
			return nil, p.errorf("Self is only allowed inside traits and impls")
		}
		return simple(p.sc.self)
	}
	if d, ok := p.sc.params[name]; ok {
		return simple(types.NamedParam(d))
	}
	if prim, ok := types.PrimitiveByName(name); ok {
		return simple(prim)
	}
	if adt := p.sc.b.adt(name); adt != nil {
		return p.instantiate(adt, args)
	}
	if p.sc.b.trait(name) != nil {
		return nil, p.errorf("trait %s used as a type; write dyn %s", name, name)
	}
	return nil, p.errorf("unknown type %s", name)
}

// instantiate applies args to adt, filling trailing parameters from their
// defaults.
func (p *parser) instantiate(adt *types.AdtItem, args []types.Ty) (types.Ty, error) {
	if len(args) > len(adt.TypeParams) {
		return nil, p.errorf("%s takes %d type arguments, got %d", adt.Name, len(adt.TypeParams), len(args))
	}
	full := append([]types.Ty(nil), args...)
	for _, d := range adt.TypeParams[len(args):] {
		if d.Default == nil {
			return nil, p.errorf("%s takes %d type arguments, got %d", adt.Name, len(adt.TypeParams), len(args))
		}
		full = append(full, d.Default)
	}
	return types.NewAdt(adt, full...), nil
}

func (p *parser) shorthandBase(name string) (types.Ty, bool) {
	if name == "Self" && p.sc.self != nil {
		return p.sc.self, true
	}
	if d, ok := p.sc.params[name]; ok {
		return types.NamedParam(d), true
	}
	return nil, false
}

// assocShorthand resolves T::Name through the bounds of T, or Self::Name
// through the enclosing trait.
func (p *parser) assocShorthand(base types.Ty, name string) (types.Ty, error) {
	var candidates []types.BoundElement
	if tp, ok := base.(types.TypeParameter); ok {
		candidates = tp.TraitBoundsTransitively()
	}
	if p.sc.owner != nil && p.sc.self != nil && types.Equal(base, p.sc.self) {
		candidates = append(candidates, p.sc.owner.ImplementedTrait().FlattenHierarchy()...)
	}
	var found *types.TypeAlias
	for _, b := range candidates {
		alias := b.Trait.FindAssociatedType(name)
		if alias == nil || alias == found {
			continue
		}
		if found != nil {
			return nil, p.errorf("ambiguous associated type %s::%s: %s or %s", base, name, found.Trait.Name, alias.Trait.Name)
		}
		found = alias
	}
	if found == nil {
		return nil, p.errorf("no associated type %s found for %s", name, base)
	}
	return types.AssociatedParamOf(base, found), nil
}

// parseBound reads Trait, Trait<A, Name = B> or Fn(A, B) -> R.
func (p *parser) parseBound() (types.BoundElement, error) {
	segs, err := p.parsePath()
	if err != nil {
		return types.BoundElement{}, err
	}
	name := strings.Join(segs, "::")
	trait := p.sc.b.trait(name)
	if trait == nil {
		return types.BoundElement{}, p.errorf("unknown trait %s", name)
	}
	if p.is("(") {
		return p.parseFnSugar(trait)
	}
	var positional []types.Ty
	var named []assocArg
	if p.accept("<") {
		if positional, named, err = p.parseGenericArgs(); err != nil {
			return types.BoundElement{}, err
		}
	}
	if len(positional) > len(trait.TypeParams) {
		return types.BoundElement{}, p.errorf("%s takes %d type arguments, got %d", trait.Name, len(trait.TypeParams), len(positional))
	}
	bound := trait.WithSubst(positional...)
	for _, a := range named {
		param, ok := traitParam(trait, a.name)
		if !ok {
			return types.BoundElement{}, p.errorf("trait %s has no associated type %s", trait.Name, a.name)
		}
		bound.Subst = bound.Subst.With(param, a.ty)
	}
	return bound, nil
}

// traitParam finds an associated type or, failing that, a type parameter of
// trait called name.
func traitParam(trait *types.TraitItem, name string) (types.TypeParameter, bool) {
	if alias := trait.FindAssociatedType(name); alias != nil {
		return types.AssociatedParam(alias), true
	}
	for _, d := range trait.TypeParams {
		if d.Name == name {
			return types.NamedParam(d), true
		}
	}
	return types.TypeParameter{}, false
}

func (p *parser) parseFnSugar(trait *types.TraitItem) (types.BoundElement, error) {
	param, ok := trait.TypeParamSingle()
	if !ok {
		return types.BoundElement{}, p.errorf("%s does not take parenthesized arguments", trait.Name)
	}
	p.next() // (
	args, err := p.parseTypeList(")")
	if err != nil {
		return types.BoundElement{}, err
	}
	var ret types.Ty = types.Unit
	explicit := p.accept("->")
	if explicit {
		if ret, err = p.parseType(); err != nil {
			return types.BoundElement{}, err
		}
	}
	bound := types.BoundElement{Trait: trait, Subst: types.SubstOf(types.SubstEntry{Param: param, Ty: types.Tuple{Types: args}})}
	if output := trait.FindAssociatedType("Output"); output != nil {
		bound.Subst = bound.Subst.With(types.AssociatedParam(output), ret)
	} else if explicit {
		return types.BoundElement{}, p.errorf("%s has no Output type", trait.Name)
	}
	return bound, nil
}

// parseBounds reads a '+'-joined bound list.
func (p *parser) parseBounds() ([]types.BoundElement, error) {
	var out []types.BoundElement
	for {
		if p.peek().kind == tokLifetime {
			p.next()
		} else {
			b, err := p.parseBound()
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		if !p.accept("+") {
			return out, nil
		}
	}
}

// Type, bound and where-clause entry points over a complete source string.

func parseTypeIn(sc *scope, src string) (types.Ty, error) {
	p, err := newParser(sc, src)
	if err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return t, p.end()
}

func parseBoundsIn(sc *scope, src string) ([]types.BoundElement, error) {
	p, err := newParser(sc, src)
	if err != nil {
		return nil, err
	}
	bs, err := p.parseBounds()
	if err != nil {
		return nil, err
	}
	return bs, p.end()
}

// parsePredicatesIn reads `Type: Bound + Bound` into one trait ref per bound.
func parsePredicatesIn(sc *scope, src string) ([]types.TraitRef, error) {
	p, err := newParser(sc, src)
	if err != nil {
		return nil, err
	}
	self, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	bs, err := p.parseBounds()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	out := make([]types.TraitRef, len(bs))
	for i, b := range bs {
		out[i] = types.TraitRef{SelfTy: self, Trait: b.WithDefaults(self)}
	}
	return out, nil
}

// paramDecl is `Name [: Bounds] [= Default]` split into its parts.
type paramDecl struct {
	name   string
	bounds string
	def    string
}

func splitParamDecl(src string) (paramDecl, error) {
	head, def := src, ""
	if i := topLevelIndex(src, '='); i >= 0 {
		head, def = src[:i], src[i+1:]
	}
	name, bounds, _ := strings.Cut(head, ":")
	out := paramDecl{bounds: strings.TrimSpace(bounds), def: strings.TrimSpace(def)}
	toks, err := lex(name)
	if err != nil || len(toks) != 2 || toks[0].kind != tokIdent {
		return paramDecl{}, fmt.Errorf("invalid type parameter %q", src)
	}
	out.name = toks[0].text
	return out, nil
}

// topLevelIndex returns the index of c outside any bracket pair.
func topLevelIndex(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if i > 0 && s[i] == '>' && s[i-1] == '-' {
				continue
			}
			depth--
		default:
			if s[i] == c && depth == 0 {
				return i
			}
		}
	}
	return -1
}
