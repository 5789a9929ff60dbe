package policy

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/lc/pimguard/internal/filesys"
)

// Writer persists base configurations and profile overrides. It is the
// only mutator of the config files; writes are atomic so a concurrent
// reader sees either the old or the new complete content.
type Writer struct {
	fs   filesys.FileOps
	root string
}

// NewWriter creates a writer rooted at the standard config directory.
func NewWriter() *Writer {
	return NewWriterWithRoot(filesys.OS(), ConfigRoot())
}

// NewWriterWithRoot creates a writer with a specific filesystem and root,
// mainly for tests.
func NewWriterWithRoot(fs filesys.FileOps, root string) *Writer {
	return &Writer{fs: fs, root: root}
}

// WriteBase validates and persists the base configuration.
func (w *Writer) WriteBase(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to write base config: %w", err)
	}
	if err := w.fs.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	return filesys.AtomicWrite(w.fs, filepath.Join(w.root, baseFileName), data, 0o644)
}

// WriteProfile validates and persists a profile override. The items lists
// are written exactly as given; matching treats them as a set, so no
// deduplication or other canonicalization happens here.
func (w *Writer) WriteProfile(name string, ov *Override) error {
	if err := ValidateProfileName(name); err != nil {
		return err
	}
	if err := ov.Validate(); err != nil {
		return fmt.Errorf("refusing to write profile %q: %w", name, err)
	}
	dir := filepath.Join(w.root, profileDirName)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating profiles directory: %w", err)
	}
	data, err := marshalConfig(ov)
	if err != nil {
		return err
	}
	return filesys.AtomicWrite(w.fs, filepath.Join(dir, filepath.Base(name)+".json"), data, 0o644)
}

func marshalConfig(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return append(data, '\n'), nil
}
