// Package trace provides structured event tracing for the resolution engine.
//
// Tracing shows which queries ran, which selections they triggered and how
// candidates were assembled. It is the place to look when a lookup is slow or
// returns an unexpected result.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	traitres select --trace=- --trace-level=detail 'Vec<i32>' Clone
//
// # Architecture
//
//   - nopTracer: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped on failure
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only ring dumps on failure
//   - LevelPhase: driver and query boundaries
//   - LevelDetail: selections and projections
//   - LevelDebug: everything including candidate assembly
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeQuery, "iter-item", parentID)
//	defer span.End("")
package trace
