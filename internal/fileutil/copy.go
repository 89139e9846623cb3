package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/giantswarm/personapool/internal/sentinel"
)

// ErrEmptySrc is returned when a source path is empty.
const ErrEmptySrc = sentinel.Error("source path must not be empty")

// ErrEmptyDst is returned when a destination path is empty.
const ErrEmptyDst = sentinel.Error("destination path must not be empty")

// CopyFileOptions configures CopyFile. The zero value copies with mode 0644
// straight into dst.
type CopyFileOptions struct {
	// Mode of the destination file, ignored on Windows.
	Mode *os.FileMode
	// Atomic writes to a temp file next to dst, syncs it and renames it over
	// dst, so readers never see a partial copy.
	Atomic bool
}

// CopyFile copies src to dst, creating dst's directory. A failed copy
// leaves no destination file behind.
func CopyFile(src, dst string, opts *CopyFileOptions) (retErr error) {
	if src == "" {
		return ErrEmptySrc
	}
	if dst == "" {
		return ErrEmptyDst
	}

	var o CopyFileOptions
	if opts != nil {
		o = *opts
	}
	mode := os.FileMode(0o644)
	if o.Mode != nil {
		mode = *o.Mode
	}

	in, err := os.Open(src) //nolint:gosec // G304: log paths come from the run configuration
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close source: %w", closeErr)
		}
	}()

	if err := EnsureDirForFile(dst); err != nil {
		return fmt.Errorf("prepare destination: %w", err)
	}

	out, writePath, err := openDst(dst, mode, o.Atomic)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(writePath)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if o.Atomic {
		if err := out.Sync(); err != nil {
			_ = out.Close()
			return fmt.Errorf("sync: %w", err)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	if writePath != dst {
		if err := os.Rename(writePath, dst); err != nil {
			return fmt.Errorf("rename temp file to destination: %w", err)
		}
	}
	return nil
}

func openDst(dst string, mode os.FileMode, atomic bool) (*os.File, string, error) {
	if !atomic {
		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode) //nolint:gosec // G304: see CopyFile
		if err != nil {
			return nil, "", fmt.Errorf("create destination: %w", err)
		}
		return f, dst, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-copy-*")
	if err != nil {
		return nil, "", fmt.Errorf("create temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, "", fmt.Errorf("chmod temp file: %w", err)
	}
	return tmp, tmp.Name(), nil
}
