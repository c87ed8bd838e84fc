// Package uploads keeps files attached to submissions.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ErrTooLarge is returned when an upload exceeds the configured size limit.
var ErrTooLarge = errors.New("uploaded file is too large")

const timestampLayout = "20060102150405"

// Store writes uploads into a single directory on an afero filesystem.
type Store struct {
	fs       afero.Fs
	dir      string
	maxBytes int64
}

// New returns a Store rooted at dir. maxBytes <= 0 disables the size limit.
func New(fs afero.Fs, dir string, maxBytes int64) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload dir is empty")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{fs: fs, dir: dir, maxBytes: maxBytes}, nil
}

// FileName builds the stored name for a student's upload:
// <student_id>_<assignment_id>_<YYYYmmddHHMMSS><ext>.
func FileName(studentID, assignmentID, original string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if ext == "." || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%s_%s_%s%s", studentID, assignmentID, at.UTC().Format(timestampLayout), ext)
}

// Save copies r into the store under name and returns the recorded path
// "<dir>/<name>". A partially written file is removed on error.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid upload name %q", name)
	}

	target := path.Join(s.dir, name)
	f, err := s.fs.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}

	n, err := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case err != nil:
		err = fmt.Errorf("write upload: %w", err)
	case closeErr != nil:
		err = fmt.Errorf("close upload: %w", closeErr)
	case s.maxBytes > 0 && n > s.maxBytes:
		err = ErrTooLarge
	}

	if err != nil {
		_ = s.fs.Remove(target)
		return "", err
	}

	return target, nil
}

// Remove deletes a previously saved file. Missing files are ignored.
func (s *Store) Remove(recorded string) error {
	if recorded == "" {
		return nil
	}
	if path.Dir(recorded) != path.Clean(s.dir) {
		return fmt.Errorf("path %q is outside the upload dir", recorded)
	}
	if err := s.fs.Remove(recorded); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
