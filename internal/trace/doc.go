// Package trace is the structured event log of idlkit.
//
// A Tracer travels in the context. Spans nest through the same context, so
// callers never pass parent IDs around:
//
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "convert")
//	defer span.End("")
//	trace.Note(ctx, trace.ScopeItem, "instruction", name)
//
// Nothing is written unless --trace or --verbose is given. Levels filter by
// scope: error keeps failures, info adds command and stage spans, debug adds
// per-item notes (programs, instructions, cache lookups).
package trace
