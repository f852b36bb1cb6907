// Package kitectx is a trimmed port of
// github.com/kiteco/kiteco/kite-golib/kitectx: a Context that can be
// threaded explicitly through a computation so that it can be aborted
// from outside.
//
// This repository's pipeline is wholly synchronous and non-cancellable, so
// the driver only ever constructs Background(), which never expires. The
// type still exists and is threaded through the parser
// exactly as kitectx.Context is threaded through pythonparser.parser, so
// that a caller embedding this engine in a longer-lived service (as
// kite-go/lang/python itself is embedded) can supply a real deadline
// without touching every recursive grammar rule.
package kitectx

import "context"

// Context carries an abort condition. It is cheap to copy and should be
// passed by value, never stored in another long-lived struct field,
// mirroring the usage note on kitectx.Context.
type Context struct {
	std context.Context
}

// Background returns a Context that never expires.
func Background() Context {
	return Context{std: context.Background()}
}

// FromStd wraps a standard context.Context.
func FromStd(std context.Context) Context {
	return Context{std: std}
}

type abortPanic struct{ err error }

// CheckAbort panics with an internal sentinel if ctx has expired. Every
// function accepting a Context calls this at its top, mirroring
// pythonparser's ctx.CheckAbort() convention.
func (ctx Context) CheckAbort() {
	if ctx.std == nil {
		return
	}
	if err := ctx.std.Err(); err != nil {
		panic(abortPanic{err})
	}
}

// Run calls f, converting an abort panic raised via CheckAbort into a
// returned error instead of letting it propagate.
func Run(ctx Context, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ap, ok := r.(abortPanic); ok {
				err = ap.err
				return
			}
			panic(r)
		}
	}()
	return f()
}
