package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local copies images into a cache directory and returns the absolute
// path. The path is only meaningful on this machine.
type Local struct {
	Dir string
}

func NewLocal(dir string) *Local {
	return &Local{Dir: dir}
}

func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(l.Dir, in.Key)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	return filepath.Abs(path)
}
