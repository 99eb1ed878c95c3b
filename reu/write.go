package reu

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	writeChunkSize int         = 64 * 1024
	fileMode       os.FileMode = 0644
)

// WriteFile writes data to name via a temporary file in the same directory,
// renaming it into place only once everything has been written. On failure
// the destination is left as it was.
//
// If progress is non-nil it receives a report per chunk and is closed
// before WriteFile returns.
func WriteFile(fs afero.Fs, name string, data []byte, progress chan<- ProgressReport) (err error) {
	if progress != nil {
		defer close(progress)
	}

	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(fs, dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: create temporary file for %s: %w", ErrWrite, name, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			fs.Remove(tmpName)
		}
	}()

	reportProgress(progress, "Writing", 0, len(data))
	for start := 0; start < len(data); start += writeChunkSize {
		end := start + writeChunkSize
		if end > len(data) {
			end = len(data)
		}

		if _, err = tmp.Write(data[start:end]); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrWrite, tmpName, err)
		}
		reportProgress(progress, "Writing", end, len(data))
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrWrite, tmpName, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWrite, tmpName, err)
	}

	if err = fs.Chmod(tmpName, fileMode); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrWrite, tmpName, err)
	}

	if err = fs.Rename(tmpName, name); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %w", ErrWrite, tmpName, name, err)
	}

	return nil
}

// ReadFile reads a whole container. Its size is not checked here.
func ReadFile(fs afero.Fs, name string) ([]byte, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, name, err)
	}

	return data, nil
}
