// Package trace records what the desugaring pipeline is doing.
//
// Enable tracing via command-line flags:
//
//	contractc desugar --trace=- --trace-level=detail list.toml
//
// Tracers:
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate text or NDJSON write to a file or stderr
//   - RingTracer: last N events kept in memory, dumped on failure
//   - ZapTracer: forwards events to a zap logger
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: phase shows driver and pass boundaries, detail adds
// per-item events, debug adds per-occurrence events.
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "desugar", 0)
//	defer span.End("")
package trace
