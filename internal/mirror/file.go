package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitedash/sitedash/internal/content"
	"github.com/spf13/afero"
)

// FileMirror keeps the document as a JSON file. Writes go to a temp file in
// the same directory and are renamed into place, so a reader never sees a
// partial document.
type FileMirror struct {
	fs   afero.Fs
	path string
}

func NewFileMirror(fs afero.Fs, path string) *FileMirror {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileMirror{fs: fs, path: path}
}

// DefaultPath returns ~/.sitedash/dashboardData.json, or a path in the
// working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".sitedash", DefaultKey+".json")
	}
	return filepath.Join(home, ".sitedash", DefaultKey+".json")
}

func (f *FileMirror) Path() string { return f.path }

func (f *FileMirror) Load(ctx context.Context) (*content.Document, error) {
	b, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache %s: %w", f.path, err)
	}
	var d content.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", f.path, err)
	}
	return &d, nil
}

func (f *FileMirror) Store(ctx context.Context, d *content.Document) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := afero.TempFile(f.fs, dir, ".dashboardData-*")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		_ = f.fs.Remove(name)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(name)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := f.fs.Rename(name, f.path); err != nil {
		_ = f.fs.Remove(name)
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Discard is a mirror that holds nothing.
type Discard struct{}

func (Discard) Load(ctx context.Context) (*content.Document, error)   { return nil, nil }
func (Discard) Store(ctx context.Context, d *content.Document) error { return nil }
