package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"traitres/internal/index"
	"traitres/internal/resolve"
	"traitres/internal/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the world, summarize it and report incomplete derives",
	Long: `Check loads the world and prints how many traits, types and impls it
declares together with its source-state digest. It warns about derive
annotations missing a trait the derive depends on (Copy without Clone, Ord
without PartialOrd, ...).`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		return s.measure("check", func() error {
			out := cmd.OutOrStdout()
			digest := s.project.Digest()
			fmt.Fprintf(out, "%s: %d traits, %d types, %d impls\n", s.project.Name(),
				len(s.project.Traits()), len(s.project.Adts()), len(s.project.Impls()))
			fmt.Fprintf(out, "digest %s\n", hex.EncodeToString(digest[:8]))
			warnings := deriveWarnings(s.project)
			printWarnings(out, warnings)
			if len(warnings) > 0 {
				return fmt.Errorf("%d incomplete derive(s)", len(warnings))
			}
			return nil
		})
	})
}

// deriveWarnings lists standard derives whose dependencies are not derived
// by the same type.
func deriveWarnings(p *index.Project) []string {
	var out []string
	for _, adt := range p.Adts() {
		derived := make([]resolve.StdDerivableTrait, 0, len(adt.Derives))
		for _, t := range adt.Derives {
			if d, ok := stdDerive(t); ok {
				derived = append(derived, d)
			}
		}
		for _, d := range derived {
			for _, dep := range d.Dependencies() {
				if !slices.Contains(derived, dep) {
					out = append(out, fmt.Sprintf("%s derives %s without %s", adt.Path, d, dep))
				}
			}
		}
	}
	return out
}

func stdDerive(t *types.TraitItem) (resolve.StdDerivableTrait, bool) {
	if !resolve.IsStdDerivable(t) {
		return 0, false
	}
	return resolve.StdDerivableTraitByName(t.Name)
}

func printWarnings(out io.Writer, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(out, "%s %s\n", ambiguousColor.Sprint("warning:"), w)
	}
}
