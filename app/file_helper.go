package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ludo-technologies/syntaxcheck/internal/langid"
)

// FileHelper provides file operation utilities
type FileHelper struct {
	respectGitignore bool
	extensions       map[string]bool
}

// NewFileHelper creates a new FileHelper that honours .gitignore files
func NewFileHelper() *FileHelper {
	exts := make(map[string]bool)
	for _, ext := range langid.Extensions() {
		exts[ext] = true
	}
	return &FileHelper{respectGitignore: true, extensions: exts}
}

// SetRespectGitignore controls whether .gitignore at each walked root is applied
func (h *FileHelper) SetRespectGitignore(enabled bool) {
	h.respectGitignore = enabled
}

// CollectSourceFiles collects Python, Java, C and C++ files from paths.
// Include and exclude patterns are doublestar globs matched against the path
// relative to the walked root; a bare exclude name also matches any path
// element.
func (h *FileHelper) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.IsSourceFile(path) && !isExcluded(filepath.ToSlash(path), excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		gi := h.loadGitignore(path)
		walked, err := h.walk(path, recursive, gi, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		files = append(files, walked...)
	}

	return files, nil
}

func (h *FileHelper) walk(root string, recursive bool, gi *ignore.GitIgnore, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if filePath == root {
			return nil
		}

		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Skip excluded directories early
			if !recursive || isExcluded(rel, excludePatterns) || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !h.IsSourceFile(filePath) || isExcluded(rel, excludePatterns) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !isIncluded(rel, includePatterns) {
			return nil
		}
		files = append(files, filePath)
		return nil
	})

	return files, err
}

func (h *FileHelper) loadGitignore(root string) *ignore.GitIgnore {
	if !h.respectGitignore {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// IsSourceFile checks if a path has a supported source extension
func (h *FileHelper) IsSourceFile(path string) bool {
	return h.extensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content as UTF-8. A UTF-8 or UTF-16 byte order mark
// selects the decoding and is dropped.
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// isIncluded reports whether rel matches an include pattern. No patterns
// includes everything.
func isIncluded(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func isExcluded(rel string, patterns []string) bool {
	elements := strings.Split(rel, "/")
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		// Bare names such as "build" or "cmake-build-*" match any path element
		if strings.Contains(pattern, "/") {
			continue
		}
		for _, el := range elements {
			if matched, err := doublestar.Match(pattern, el); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	// Check if all paths are already files
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	// If all paths are already files, no need to collect again
	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}
