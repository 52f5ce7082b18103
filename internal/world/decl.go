package world

// File is the TOML form of a world declaration file:
//
//	[[trait]]
//	name = "Add"
//	path = "core::ops::arith::Add"
//	lang = "add"
//	params = ["Rhs = Self"]
//	assoc = ["Output"]
//
//	[[struct]]
//	name = "Vec"
//	path = "alloc::vec::Vec"
//	params = ["T"]
//	derive = ["Clone"]
//
//	[[impl]]
//	params = ["T: Clone"]
//	trait = "Clone"
//	for = "Vec<T>"
type File struct {
	Traits  []TraitDecl `toml:"trait"`
	Structs []AdtDecl   `toml:"struct"`
	Enums   []AdtDecl   `toml:"enum"`
	Impls   []ImplDecl  `toml:"impl"`
}

// TraitDecl declares a trait. Params use `Name [: Bounds] [= Default]`;
// Assoc entries are `Name` or `Name = Default`.
type TraitDecl struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Lang   string   `toml:"lang"`
	Params []string `toml:"params"`
	Assoc  []string `toml:"assoc"`
	Super  []string `toml:"super"`
}

// AdtDecl declares a struct or enum.
type AdtDecl struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Params []string `toml:"params"`
	Derive []string `toml:"derive"`
}

// ImplDecl declares an impl block. An empty Trait declares an inherent impl.
type ImplDecl struct {
	Params []string          `toml:"params"`
	Trait  string            `toml:"trait"`
	For    string            `toml:"for"`
	Assoc  map[string]string `toml:"assoc"`
	Where  []string          `toml:"where"`
}

func (f *File) merge(other File) {
	f.Traits = append(f.Traits, other.Traits...)
	f.Structs = append(f.Structs, other.Structs...)
	f.Enums = append(f.Enums, other.Enums...)
	f.Impls = append(f.Impls, other.Impls...)
}
