// Package interpreter resolves the guest-language invocation for a script
// by its file extension. The default configuration registers a single
// extension, but a deployment may register additional guest languages,
// each with its own interpreter binary and flag prefix, and dispatch
// between them by extension the way a language-strategy registry
// dispatches by language.
package interpreter

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Spec describes how to invoke one guest language: the interpreter binary
// (resolved via PATH unless absolute) and the flags applied between the
// interpreter and the script path.
type Spec struct {
	Interpreter string
	Flags       []string
}

// Args builds the argument vector for invoking scriptPath under this Spec,
// with extraArgs appended after the script path.
func (s Spec) Args(scriptPath string, extraArgs []string) []string {
	args := make([]string, 0, len(s.Flags)+1+len(extraArgs))
	args = append(args, s.Flags...)
	args = append(args, scriptPath)
	args = append(args, extraArgs...)
	return args
}

// Resolver dispatches a script's extension to the Spec configured for it.
// It is safe for concurrent use; registration is expected at startup, but
// Register may be called at any time without disrupting concurrent
// Resolve calls.
type Resolver struct {
	mu       sync.RWMutex
	specs    map[string]Spec
	fallback string
}

// NewResolver builds a Resolver whose default extension is defaultExt,
// invoked with defaultSpec. Additional extensions are added with
// Register.
func NewResolver(defaultExt string, defaultSpec Spec) *Resolver {
	r := &Resolver{
		specs:    make(map[string]Spec),
		fallback: defaultExt,
	}
	r.Register(defaultExt, defaultSpec)
	return r
}

// Register associates ext (e.g. ".py") with spec, replacing any prior
// registration for that extension.
func (r *Resolver) Register(ext string, spec Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[ext] = spec
}

// Resolve returns the Spec registered for scriptPath's extension, or the
// default extension's Spec when that extension has no registration.
func (r *Resolver) Resolve(scriptPath string) (Spec, error) {
	ext := filepath.Ext(scriptPath)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if spec, ok := r.specs[ext]; ok {
		return spec, nil
	}
	if spec, ok := r.specs[r.fallback]; ok {
		return spec, nil
	}
	return Spec{}, fmt.Errorf("interpreter: no spec registered for extension %q", ext)
}

// DefaultExtension reports the extension new scripts are validated against
// when no per-extension override applies.
func (r *Resolver) DefaultExtension() string {
	return r.fallback
}
