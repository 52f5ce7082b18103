package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"traitres/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "traitres",
	Short: "Trait resolution engine for declarative type worlds",
	Long: `traitres answers trait-system questions (which impl satisfies a trait ref,
what an associated type projects to, what a deref chain or an operator
resolves to) against a world of traits, types and impls described in TOML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupColor(cmd)
	},
}

// init registers subcommands and persistent flags.
func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(implsCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(iterItemCmd)
	rootCmd.AddCommand(derefCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(opCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.String("manifest", "", "path to traitres.toml (default: search upward from the working directory)")
	flags.StringSlice("world", nil, "world declaration files; overrides [world].sources")
	flags.Bool("no-std", false, "do not load the built-in standard prelude")
	flags.StringArray("param", nil, `declare a query type parameter, e.g. "T: Clone" (repeatable)`)
	flags.Bool("legacy-iter", true, "match Iterator/IntoIterator by name when no iterator lang item exists")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "ring", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "number of events kept in ring mode")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")

	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main executes the root command. Any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid color mode %q (expected: auto|on|off)", mode)
	}
	return nil
}
