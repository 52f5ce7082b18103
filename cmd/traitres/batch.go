package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"traitres/internal/resolve"
	"traitres/internal/trace"
	"traitres/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <file|->",
	Short: "Prove many trait references in parallel",
	Long: `Batch reads one trait reference per line ("Type: Trait"; blank lines and
lines starting with # are skipped) and proves each of them, nested
obligations included. Queries run in parallel and share the selection
caches; results are printed in input order.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("jobs", 0, "max parallel queries (0 = [engine].jobs, then GOMAXPROCS)")
}

// batchQuery is one input line.
type batchQuery struct {
	line int
	src  string
	ref  types.TraitRef
	err  error
}

// batchResult is the outcome of one query.
type batchResult struct {
	kind   resolve.ResultKind
	detail string
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	lines, err := readBatch(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(s *session) error {
		if jobs <= 0 {
			jobs = s.jobs
		}
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}

		// Parsing is sequential; selection runs in parallel.
		queries := make([]batchQuery, len(lines))
		for i, l := range lines {
			queries[i] = batchQuery{line: l.line, src: l.text}
			queries[i].ref, queries[i].err = s.query.TraitRef(l.text)
		}

		var results []batchResult
		err := s.measure("batch", func() error {
			var err error
			results, err = runBatchQueries(cmd.Context(), s, queries, jobs)
			return err
		})
		if err != nil {
			return err
		}

		tb := newTable(fmt.Sprintf("%d queries, %d jobs", len(queries), jobs))
		for i, q := range queries {
			tb.Add(fmt.Sprintf("%d: %s", q.line, q.src), results[i].kind.String(), results[i].detail)
		}
		fmt.Fprint(cmd.OutOrStdout(), tb.View())
		if failed := tb.Count(resolve.ResultErr.String()); failed > 0 {
			return fmt.Errorf("%d of %d queries failed", failed, len(queries))
		}
		return nil
	})
}

// runBatchQueries proves every query with at most jobs goroutines. Each
// goroutine owns its ImplLookup and inference context.
func runBatchQueries(ctx context.Context, s *session, queries []batchQuery, jobs int) ([]batchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]batchResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range queries {
		q := &queries[i]
		if q.err != nil {
			results[i] = batchResult{kind: resolve.ResultErr, detail: q.err.Error()}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tracer := trace.FromContext(gctx)
			span := trace.Begin(tracer, trace.ScopeQuery, "prove", 0).WithExtra("line", strconv.Itoa(q.line))
			results[i] = prove(s.lookupWith(tracer), q.ref)
			span.End(results[i].kind.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// prove selects ref and evaluates its nested obligations.
func prove(l *resolve.ImplLookup, ref types.TraitRef) batchResult {
	res := l.Select(ref, 0)
	sel, ok := res.Ok()
	if !ok {
		return batchResult{kind: res.Kind(), detail: res.Err().Error()}
	}
	pending, err := l.EvaluateObligations(sel.Obligations)
	switch {
	case err != nil:
		return batchResult{kind: resolve.ResultErr, detail: err.Error()}
	case len(pending) > 0:
		return batchResult{kind: resolve.ResultAmbiguous, detail: fmt.Sprintf("%s, %d undecided", sel.Impl, len(pending))}
	}
	return batchResult{kind: resolve.ResultOk, detail: sel.Impl.String()}
}

type batchLine struct {
	line int
	text string
}

// readBatch reads query lines from path, or from stdin for "-".
func readBatch(stdin io.Reader, path string) ([]batchLine, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parseBatch(r)
}

func parseBatch(r io.Reader) ([]batchLine, error) {
	var out []batchLine
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		out = append(out, batchLine{line: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}
	return out, nil
}
