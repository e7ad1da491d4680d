// Package engine produces IDL documents: from a program's sources through
// cargo, or from raw JSON in either the current or the legacy layout.
package engine

import (
	"context"

	"idlkit/internal/idl"
)

// Engine is the external IDL toolchain.
type Engine interface {
	Build(ctx context.Context, opts BuildOptions) (*idl.Document, error)
	Convert(raw []byte) (*idl.Document, error)
}

// BuildOptions selects what the cargo build emits.
type BuildOptions struct {
	ProgramRoot     string
	ResolveAccounts bool // ANCHOR_IDL_BUILD_RESOLUTION
	SkipLint        bool
	SkipDocs        bool
	NoCache         bool

	// OnCached, when set, is called once a build is served from the cache.
	OnCached func()
}

// Native builds with the local cargo toolchain and converts in-process.
type Native struct {
	Cargo string        // executable, "cargo" when empty
	Run   CommandRunner // nil: ExecRunner
	Cache *Cache        // nil disables caching
}

var _ Engine = (*Native)(nil)

// New returns a Native engine that caches under the user cache directory.
// A cache directory that cannot be created just disables caching.
func New() *Native {
	n := &Native{Cargo: "cargo", Run: ExecRunner}
	if c, err := OpenCache("idlkit"); err == nil {
		n.Cache = c
	}
	return n
}
