package world

import (
	_ "embed"

	"traitres/internal/index"
)

//go:embed std.toml
var stdSource string

// StdSource returns the bundled core/alloc prelude. It declares the lang
// items and core paths the resolver looks up, with a handful of impls for
// Vec, String, Box and Option.
func StdSource() string { return stdSource }

// ParseWithStd is Parse with the bundled prelude prepended.
func ParseWithStd(name string, sources ...string) (*index.Project, error) {
	return Parse(name, append([]string{stdSource}, sources...)...)
}

// LoadWithStd is Load with the bundled prelude prepended.
func LoadWithStd(name string, paths ...string) (*index.Project, error) {
	var all File
	if err := decodeSource(&all, "prelude", stdSource); err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := decodeFile(&all, path); err != nil {
			return nil, err
		}
	}
	return Build(name, all)
}
