// Package scriptsfs implements the CRUD operations over the scripts
// directory: create (write-new-only), update (overwrite-existing-only),
// and delete (remove-existing-only). List is served directly from the
// registry snapshot by the caller.
package scriptsfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"scriptrunner/internal/domain/execution"
)

// Store performs filesystem CRUD against a single flat directory.
type Store struct {
	dir       string
	extension string
}

// New constructs a Store rooted at dir, requiring created/updated names to
// end in extension.
func New(dir, extension string) *Store {
	return &Store{dir: dir, extension: extension}
}

func (s *Store) resolve(name execution.Name) (string, error) {
	if err := name.Validate(s.extension); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name.String()), nil
}

// Create writes a new script. It fails with ScriptAlreadyExists if a file
// of that name is already present.
func (s *Store) Create(name execution.Name, code []byte) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &execution.Error{Kind: execution.ScriptAlreadyExists, Message: fmt.Sprintf("script %q already exists", name)}
		}
		return &execution.Error{Kind: execution.Io, Message: "create script: " + err.Error()}
	}
	defer f.Close()

	if _, err := f.Write(code); err != nil {
		return &execution.Error{Kind: execution.Io, Message: "write script: " + err.Error()}
	}
	return nil
}

// Update overwrites an existing script. It fails with ScriptNotFound if no
// such file exists.
func (s *Store) Update(name execution.Name, code []byte) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return &execution.Error{Kind: execution.ScriptNotFound, Message: fmt.Sprintf("script %q not found", name)}
	}

	if err := os.WriteFile(path, code, 0o644); err != nil {
		return &execution.Error{Kind: execution.Io, Message: "update script: " + err.Error()}
	}
	return nil
}

// Delete removes an existing script. It fails with ScriptNotFound if the
// file is absent; idempotency is not required.
func (s *Store) Delete(name execution.Name) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &execution.Error{Kind: execution.ScriptNotFound, Message: fmt.Sprintf("script %q not found", name)}
		}
		return &execution.Error{Kind: execution.Io, Message: "delete script: " + err.Error()}
	}
	return nil
}
