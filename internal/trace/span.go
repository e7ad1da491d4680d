package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span is an open Begin event waiting for its End.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// Start opens a span under the span in ctx and returns a context in which
// it is the parent. With tracing off the span only measures time.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	now := time.Now()
	if !enabled(t) {
		return ctx, &Span{tracer: Nop, started: now}
	}
	sp := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  spanFrom(ctx),
		scope:   scope,
		name:    name,
		started: now,
	}
	t.Emit(&Event{Time: now, Kind: KindBegin, Scope: scope, Span: sp.id, Parent: sp.parent, Name: name})
	return context.WithValue(ctx, spanKey{}, sp.id), sp
}

// Set attaches an attribute reported with End.
func (s *Span) Set(key, value string) *Span {
	if s == nil || !enabled(s.tracer) {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End closes the span and returns its duration. A nil span is a no-op.
func (s *Span) End(msg string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	d := now.Sub(s.started)
	if enabled(s.tracer) {
		s.tracer.Emit(&Event{
			Time:   now,
			Kind:   KindEnd,
			Scope:  s.scope,
			Span:   s.id,
			Parent: s.parent,
			Name:   s.name,
			Msg:    msg,
			Attrs:  mergeDuration(s.attrs, d),
		})
	}
	return d
}

func mergeDuration(attrs map[string]string, d time.Duration) map[string]string {
	out := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	out["took"] = d.Round(time.Microsecond).String()
	return out
}

// Note records an instant event under the span in ctx.
func Note(ctx context.Context, scope Scope, name, msg string) {
	t := FromContext(ctx)
	if !enabled(t) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindNote, Scope: scope, Parent: spanFrom(ctx), Name: name, Msg: msg})
}

// Failure records err; every level except off keeps it.
func Failure(ctx context.Context, scope Scope, name string, err error) {
	t := FromContext(ctx)
	if err == nil || !enabled(t) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindError, Scope: scope, Parent: spanFrom(ctx), Name: name, Msg: err.Error()})
}
