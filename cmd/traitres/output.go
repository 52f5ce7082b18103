package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"traitres/internal/infer"
	"traitres/internal/resolve"
	"traitres/internal/ui"
)

var (
	okColor        = color.New(color.FgGreen, color.Bold)
	errColor       = color.New(color.FgRed, color.Bold)
	ambiguousColor = color.New(color.FgYellow, color.Bold)
	dimColor       = color.New(color.Faint)
)

func kindColor(k resolve.ResultKind) *color.Color {
	switch k {
	case resolve.ResultOk:
		return okColor
	case resolve.ResultAmbiguous:
		return ambiguousColor
	default:
		return errColor
	}
}

// printKind writes the tri-state tag followed by detail.
func printKind(out io.Writer, k resolve.ResultKind, detail string) {
	tag := kindColor(k).Sprint(k.String())
	if detail == "" {
		fmt.Fprintln(out, tag)
		return
	}
	fmt.Fprintf(out, "%s %s\n", tag, detail)
}

// printObligations lists obligations indented under a result, with the
// variables bound in ctx resolved.
func printObligations(out io.Writer, ctx *infer.Context, obligations []infer.Obligation) {
	for _, o := range obligations {
		fmt.Fprintf(out, "  %s %s\n", dimColor.Sprint("where"), resolvePredicate(ctx, o.Predicate))
	}
}

func resolvePredicate(ctx *infer.Context, p infer.Predicate) infer.Predicate {
	switch p := p.(type) {
	case infer.TraitPredicate:
		return infer.TraitPredicate{Ref: p.Ref.FoldWith(ctx.ResolveTypeVarsIfPossible)}
	case infer.EquatePredicate:
		return infer.EquatePredicate{
			Ty1: ctx.ResolveTypeVarsIfPossible(p.Ty1),
			Ty2: ctx.ResolveTypeVarsIfPossible(p.Ty2),
		}
	}
	return p
}

// printAnswer prints a plain query answer, or "none" when the query has
// no answer.
func printAnswer(out io.Writer, ctx *infer.Context, answer string, obligations []infer.Obligation) {
	if answer == "" {
		fmt.Fprintln(out, errColor.Sprint("none"))
		return
	}
	fmt.Fprintln(out, answer)
	printObligations(out, ctx, obligations)
}

// newTable creates a result table sized to the terminal.
func newTable(title string) *ui.Table {
	width := 0
	if isTerminal(os.Stdout) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	return ui.NewTable(title, width, !color.NoColor)
}

// joinArgs rebuilds a type expression the shell split on spaces.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
