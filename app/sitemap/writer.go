package sitemap

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists encoded documents. Each document is written to a temporary
// file next to its target and renamed into place, so readers never observe a
// half-written sitemap.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

func (w *Writer) WriteFile(file File) (string, error) {
	path := filepath.Join(w.outputDir, file.Name())
	if err := writeAtomic(path, EncodeURLSet(file)); err != nil {
		return "", fmt.Errorf("failed to write sitemap %s: %w", file.Name(), err)
	}
	return path, nil
}

func (w *Writer) WriteIndex(path string, entries []IndexEntry) error {
	if err := writeAtomic(path, EncodeIndex(entries)); err != nil {
		return fmt.Errorf("failed to write sitemap index: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}
