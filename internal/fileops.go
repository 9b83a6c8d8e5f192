package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FileEntry is one regular file found by ListDirFilesSorted.
type FileEntry struct {
	Path string
	Size int64
}

// ReadBlockAt reads up to len(buf) bytes from the file at the given offset.
// The file handle is acquired per call and released on every exit path.
// Reaching end of file is not an error: the short (possibly zero) count is
// returned with a nil error.
func ReadBlockAt(path string, offset int64, buf []byte) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n, err := f.ReadAt(buf, offset)
	if err == io.EOF {
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("failed to read %s at %d: %w", path, offset, err)
	}
	return n, nil
}

// ReadWholeFile reads the entire file into memory.
func ReadWholeFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ListDirFilesSorted lists the regular files directly under dir whose size
// falls within [minSize, maxSize], sorted by full path. Unreadable entries
// are skipped.
func ListDirFilesSorted(dir string, minSize, maxSize int64) ([]FileEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileEntry
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		if fi.Size() < minSize || fi.Size() > maxSize {
			continue
		}
		files = append(files, FileEntry{Path: filepath.Join(dir, entry.Name()), Size: fi.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
