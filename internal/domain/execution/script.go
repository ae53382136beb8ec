// Package execution holds the data model shared by the registry, cache,
// supervisor, and fan-out runner: script names, execution requests and
// results, and the errors the core distinguishes.
package execution

import (
	"path/filepath"
	"strings"
)

// Name identifies a script file inside the scripts directory. It is
// compared verbatim and never normalized: case, and any whitespace the
// caller included, are part of its identity.
type Name string

// Validate reports whether n satisfies the constraints a script name must
// meet before it is ever joined onto a filesystem path: non-empty, no path
// separator, no parent-directory segment, and the given extension.
func (n Name) Validate(extension string) error {
	s := string(n)
	if s == "" {
		return &Error{Kind: InvalidName, Message: "script name must not be empty"}
	}
	if strings.ContainsAny(s, "/\\") {
		return &Error{Kind: InvalidName, Message: "script name must not contain a path separator"}
	}
	if s == "." || s == ".." {
		return &Error{Kind: InvalidName, Message: "script name must not be a directory segment"}
	}
	if filepath.IsAbs(s) {
		return &Error{Kind: InvalidName, Message: "script name must not be an absolute path"}
	}
	if extension != "" && !strings.HasSuffix(s, extension) {
		return &Error{Kind: InvalidName, Message: "script name must end with " + extension}
	}
	return nil
}

// String returns the raw name.
func (n Name) String() string {
	return string(n)
}
