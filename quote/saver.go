package quote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Saver archives a generated quote somewhere outside the HTTP response.
// It returns a human readable location such as a path, a Drive file id or an s3:// URL.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DirSaver writes quotes into a local directory
type DirSaver struct {
	Dir string
}

var _ Saver = (*DirSaver)(nil)

func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

func (s *DirSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create quote directory: %w", err)
	}
	path := filepath.Join(s.Dir, NormalizeName(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write quote %s: %w", path, err)
	}
	return path, nil
}
