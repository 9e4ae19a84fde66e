package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"polycubes/internal/polycube"
)

// FileStore keeps each generation in its own file, cubes_<n>.bin, inside Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file that holds generation n.
func (s *FileStore) Path(n int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("cubes_%d.bin", n))
}

// Load reads generation n from disk.
func (s *FileStore) Load(ctx context.Context, n int) ([]polycube.Grid, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	path := s.Path(n)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}

	shapes, err := decodeGeneration(n, data)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", path, err)
	}
	return shapes, true, nil
}

// Save writes generation n. The payload goes to a temp file in the same
// directory which is then renamed over the target, so readers never see a
// partial file.
func (s *FileStore) Save(ctx context.Context, n int, shapes []polycube.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeGeneration(n, shapes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("%w: create cache directory: %w", ErrIO, err)
	}

	path := s.Path(n)
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	committed = true
	return nil
}
