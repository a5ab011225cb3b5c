// Package document owns the committed resume and the snapshot/commit primitives around it.
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/types"
)

// Persister makes committed documents durable. It is invoked after commit,
// outside the store's critical section.
type Persister interface {
	Load(ctx context.Context) (*types.Resume, error)
	Save(ctx context.Context, resume *types.Resume, revision uint64) error
}

// Decode checks raw JSON against the resume schema and decodes it
func Decode(data []byte) (*types.Resume, error) {
	if err := schemas.ValidateResumeJSON(data); err != nil {
		return nil, &LoadError{
			Message: "schema validation failed",
			Cause:   err,
		}
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}
	resume.Normalize()
	return &resume, nil
}

// Encode serializes a document in its persisted form
func Encode(resume *types.Resume) ([]byte, error) {
	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	return data, nil
}

// FileStore persists the document as a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location
func (f *FileStore) Path() string {
	return f.path
}

// Load reads and decodes the document file
func (f *FileStore) Load(_ context.Context) (*types.Resume, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", f.path),
			Cause:   err,
		}
	}
	return Decode(content)
}

// Save writes the document through a temp file and rename so a crash never
// leaves a partially written document behind
func (f *FileStore) Save(ctx context.Context, resume *types.Resume, _ uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(resume)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".resume-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write resume: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
