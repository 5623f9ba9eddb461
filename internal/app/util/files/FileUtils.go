package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"audio-pipeline/internal/app/model"

	"github.com/samber/lo"
)

// audioExtensions are the suffixes listed by the library and blob endpoints.
var audioExtensions = []string{".mp3", ".wav"}

// IsAudioFile reports whether name ends in one of the listed audio extensions.
func IsAudioFile(name string) bool {
	return lo.SomeBy(audioExtensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	})
}

// FilterAudioNames keeps the names that look like audio files, preserving order.
func FilterAudioNames(names []string) []string {
	return lo.Filter(names, func(name string, _ int) bool {
		return IsAudioFile(name)
	})
}

// IsSafeName reports whether name is a single, non-special path element.
func IsSafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}

// GetAllAudioFiles lists the audio files directly under dir, oldest first.
func GetAllAudioFiles(dir string) ([]model.FileInfo, error) {
	if dir == "" {
		return nil, fmt.Errorf("library path is not set")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory: %w", err)
	}

	fileInfos := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (model.FileInfo, bool) {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			return model.FileInfo{}, false
		}
		info, err := entry.Info()
		if err != nil {
			return model.FileInfo{}, false
		}
		return model.FileInfo{
			FullPath: filepath.Join(dir, entry.Name()),
			ModTime:  info.ModTime(),
			Name:     entry.Name(),
		}, true
	})

	sort.SliceStable(fileInfos, func(i, j int) bool {
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})

	return fileInfos, nil
}

// ListAudioFileNames returns the audio file names under dir in directory order.
func ListAudioFileNames(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("LOCAL_FOLDER_PATH is not set or invalid")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("LOCAL_FOLDER_PATH is not set or invalid")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory: %w", err)
	}
	names := lo.Map(lo.Filter(entries, func(e os.DirEntry, _ int) bool { return !e.IsDir() }),
		func(e os.DirEntry, _ int) string { return e.Name() })
	return FilterAudioNames(names), nil
}

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyFile copies src to dst through a temporary file so dst never holds partial bytes.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	return WriteAtomic(dst, in)
}

// WriteAtomic streams r into dst via a sibling temp file and renames it in place.
func WriteAtomic(dst string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".staging-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

// ReadOutputFile reads the specified output file and returns its text content.
func ReadOutputFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}
