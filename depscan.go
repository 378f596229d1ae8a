// Package depscan indexes line-oriented module directives in source trees,
// resolves the minimal set of external library files an application needs,
// and renders dependency manifests for a runtime module loader.
package depscan

import (
	"errors"
	"log/slog"
)

var (
	// ErrNoLibrary is returned when a closure is requested from an Engine
	// without a configured library.
	ErrNoLibrary = errors.New("depscan: no library configured")

	// ErrClosureDiverged is returned if closure expansion exceeds its round
	// limit. A correct index never triggers it.
	ErrClosureDiverged = errors.New("depscan: closure did not converge")

	// ErrNoSnapshot is returned when a snapshot database does not exist.
	ErrNoSnapshot = errors.New("depscan: snapshot not found")
)

var discardLogger = slog.New(slog.DiscardHandler)
