package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"traitres/internal/cache"
	"traitres/internal/index"
	"traitres/internal/observ"
	"traitres/internal/project"
	"traitres/internal/resolve"
	"traitres/internal/trace"
	"traitres/internal/world"
)

// session is the state shared by one CLI invocation: the loaded world, the
// resolution caches and the ambient tracer and timer.
type session struct {
	cmd      *cobra.Command
	project  *index.Project
	caches   *resolve.Caches
	query    *world.Query
	tracer   trace.Tracer
	timer    *observ.Timer
	timings  bool
	legacy   bool
	jobs     int
	cleanup  func()
	manifest *project.Manifest
}

// openSession reads the manifest and flags, loads the world and prepares
// the query scope. The caller must call close.
func openSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, err
	}
	cleanup := func() {
		stopTracing()
		stopProfiling()
	}
	s := &session{
		cmd:     cmd,
		tracer:  trace.FromContext(cmd.Context()),
		cleanup: cleanup,
		timer:   observ.NewTimer(),
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if err := s.load(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) load() error {
	flags := s.cmd.Root().PersistentFlags()
	span := trace.Begin(s.tracer, trace.ScopeDriver, "load", 0)
	defer span.End("")

	cfg := project.DefaultConfig()
	manifestPath, err := flags.GetString("manifest")
	if err != nil {
		return fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if err := s.timer.Measure("manifest", func() error {
		m, err := findManifest(manifestPath)
		if err != nil {
			return err
		}
		if m != nil {
			s.manifest = m
			cfg = m.Config
			span.WithExtra("manifest", m.Path)
		}
		return nil
	}); err != nil {
		return err
	}

	sources, err := flags.GetStringSlice("world")
	if err != nil {
		return fmt.Errorf("failed to get world flag: %w", err)
	}
	if len(sources) == 0 && s.manifest != nil {
		sources = s.manifest.SourcePaths()
	}
	noStd, err := flags.GetBool("no-std")
	if err != nil {
		return fmt.Errorf("failed to get no-std flag: %w", err)
	}
	if noStd && len(sources) == 0 {
		return fmt.Errorf("no world sources: pass --world or add [world].sources to %s", project.ManifestName)
	}

	name := "app"
	if cfg.Package.Name != "" {
		name = cfg.Package.Name
	}
	if err := s.timer.Measure("world", func() error {
		var err error
		if noStd {
			s.project, err = world.Load(name, sources...)
		} else {
			s.project, err = world.LoadWithStd(name, sources...)
		}
		return err
	}); err != nil {
		return err
	}
	span.WithExtra("items", fmt.Sprintf("%d traits, %d types, %d impls",
		len(s.project.Traits()), len(s.project.Adts()), len(s.project.Impls())))

	service := cache.NewService()
	service.SourceStateChanged(s.project.ID(), s.project.Digest())
	s.caches = resolve.NewCaches(service)

	params, err := flags.GetStringArray("param")
	if err != nil {
		return fmt.Errorf("failed to get param flag: %w", err)
	}
	if s.query, err = world.NewQuery(s.project, params...); err != nil {
		return fmt.Errorf("invalid --param: %w", err)
	}

	s.legacy = cfg.Engine.LegacyIteratorLookup
	if flags.Changed("legacy-iter") {
		if s.legacy, err = flags.GetBool("legacy-iter"); err != nil {
			return fmt.Errorf("failed to get legacy-iter flag: %w", err)
		}
	}
	s.jobs = cfg.Engine.Jobs
	return nil
}

// findManifest loads the manifest at path, or searches upward from the
// working directory when path is empty. A missing manifest is not an error
// in search mode.
func findManifest(path string) (*project.Manifest, error) {
	if path != "" {
		cfg, err := project.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		return &project.Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	m, _, err := project.LoadManifest(wd)
	return m, err
}

// lookup creates an ImplLookup sharing the session caches. Each goroutine
// needs its own.
func (s *session) lookup() *resolve.ImplLookup {
	return s.lookupWith(s.tracer)
}

func (s *session) lookupWith(tracer trace.Tracer) *resolve.ImplLookup {
	return resolve.New(s.project, s.caches,
		resolve.WithTracer(tracer),
		resolve.WithLegacyIteratorLookup(s.legacy),
	)
}

// measure runs fn as a timed query phase inside a query trace span.
func (s *session) measure(name string, fn func() error) error {
	span := trace.Begin(s.tracer, trace.ScopeQuery, name, 0)
	err := s.timer.Measure(name, fn)
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	return err
}

func (s *session) close() {
	if s.timings {
		fmt.Fprint(s.cmd.ErrOrStderr(), s.timer.Summary())
	}
	if s.cleanup != nil {
		s.cleanup()
	}
}
