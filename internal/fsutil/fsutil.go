// Package fsutil holds the filesystem operations of a bundle run: existence
// checks, recursive delete and recursive copy of the build output.
package fsutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/otiai10/copy"
)

// OS operates on the real filesystem.
type OS struct{}

// Exists reports whether path exists. Errors other than "not exist" are returned.
func (OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func (OS) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// RemoveAll deletes path and everything under it. A missing path is not an error.
func (OS) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %q: %w", path, err)
	}
	return nil
}

// CopyDir copies src recursively to dst and returns the number of regular
// files written. Symlinks are followed so the data image holds real files.
func (OS) CopyDir(src, dst string) (int, error) {
	err := copy.Copy(src, dst, copy.Options{
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
		OnDirExists: func(string, string) copy.DirExistsAction {
			return copy.Replace
		},
	})
	if err != nil {
		return 0, fmt.Errorf("copying %q to %q: %w", src, dst, err)
	}
	return CountFiles(dst)
}

// Digest returns the TreeDigest of dir.
func (OS) Digest(dir string) (string, error) {
	return TreeDigest(dir)
}

// CountFiles returns the number of regular files under dir.
func CountFiles(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting files in %q: %w", dir, err)
	}
	return n, nil
}

// TreeDigest hashes the relative paths and contents of every file under dir.
// Two trees with the same digest hold the same files with the same bytes.
// Symlinks are followed, matching CopyDir, so a source tree and its copy
// hash the same.
func TreeDigest(dir string) (string, error) {
	h := sha256.New()
	if err := hashTree(h, dir, ".", nil); err != nil {
		return "", fmt.Errorf("hashing %q: %w", dir, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashTree writes dir and its entries to h in lexical order. parents holds
// the resolved paths of the directories being walked, to stop symlink cycles.
func hashTree(h io.Writer, dir, rel string, parents []string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if slices.Contains(parents, resolved) {
		return fmt.Errorf("symlink cycle at %q", dir)
	}
	parents = append(parents, resolved)

	fmt.Fprintf(h, "d %s\n", rel)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		child := e.Name()
		if rel != "." {
			child = rel + "/" + e.Name()
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := hashTree(h, path, child, parents); err != nil {
				return err
			}
			continue
		}
		if err := hashFile(h, path, child); err != nil {
			return err
		}
	}
	return nil
}

func hashFile(h io.Writer, path, rel string) error {
	fmt.Fprintf(h, "f %s\n", rel)
	f, err := os.Open(path) //nolint:gosec // walking a directory we were asked to hash
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(h, f)
	return err
}
