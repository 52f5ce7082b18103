package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a parsed traitres.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of traitres.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	World   WorldConfig   `toml:"world"`
	Engine  EngineConfig  `toml:"engine"`
}

// PackageConfig names the project.
type PackageConfig struct {
	Name string `toml:"name"`
}

// WorldConfig lists declaration files, relative to the manifest.
type WorldConfig struct {
	Sources []string `toml:"sources"`
}

// EngineConfig tunes the resolution engine.
type EngineConfig struct {
	// LegacyIteratorLookup enables the name-based Iterator fallback used when
	// no iterator lang item is declared.
	LegacyIteratorLookup bool `toml:"legacy_iterator_lookup"`
	// Jobs bounds parallel queries in batch mode; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

// DefaultConfig returns the configuration used when a key is absent.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{LegacyIteratorLookup: true},
	}
}

// LoadManifest finds traitres.toml starting at startDir and parses it.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates a manifest file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("world", "sources") || len(cfg.World.Sources) == 0 {
		return Config{}, fmt.Errorf("%s: missing [world].sources", path)
	}
	if cfg.Engine.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [engine].jobs must not be negative", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

// SourcePaths resolves [world].sources against the manifest directory.
func (m *Manifest) SourcePaths() []string {
	out := make([]string, len(m.Config.World.Sources))
	for i, src := range m.Config.World.Sources {
		p := filepath.FromSlash(src)
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out[i] = p
	}
	return out
}
