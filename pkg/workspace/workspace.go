// Package workspace resolves workspace roots and chooses file names for
// mutations inside them.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattsolo1/grove-folio/pkg/classify"
	"github.com/mattsolo1/grove-folio/pkg/models"
)

const (
	// DefaultBaseName is used when a requested name sanitizes to nothing.
	DefaultBaseName  = "Untitled"
	// DefaultExtension is the extension given to names without a recognized extension.
	DefaultExtension = "md"
)

var invalidChars = []string{"/", "\\", ":", "*", "?", `"`, "<", ">", "|"}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ResolveRoot returns the absolute, cleaned form of path after checking that
// it names an existing directory.
func ResolveRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("workspace root is empty: %w", models.ErrNotFound)
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("workspace root %s: %w", abs, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("stat workspace root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root %s: %w", abs, models.ErrNotADirectory)
	}
	return abs, nil
}

// SanitizeName turns a user-supplied name into a safe file name. Path
// separators and reserved characters are removed, leading dots are dropped so
// the result is never hidden, and the default extension is appended when the
// name has no extension the classifier recognizes.
func SanitizeName(name, defaultExt string) string {
	name = strings.TrimSpace(name)
	for _, char := range invalidChars {
		name = strings.ReplaceAll(name, char, "")
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ". ")
	name = strings.TrimRight(name, ". ")
	if name == "" {
		name = DefaultBaseName
	}

	defaultExt = strings.TrimPrefix(defaultExt, ".")
	if defaultExt == "" || !classify.IsTextName("x."+defaultExt) {
		defaultExt = DefaultExtension
	}
	if kind, _ := classify.Classify(name); kind == models.KindUnsupported {
		name += "." + defaultExt
	}
	return name
}

// SplitName splits a file name into its base and extension (with the dot).
// The compound .synctex.gz suffix is kept together.
func SplitName(name string) (base, ext string) {
	if strings.HasSuffix(strings.ToLower(name), classify.SynctexSuffix) {
		cut := len(name) - len(classify.SynctexSuffix)
		return name[:cut], name[cut:]
	}
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// Exists reports whether anything, including a dangling symlink, occupies path.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FreePath returns dir/name, or the first of dir/base-1.ext, dir/base-2.ext, …
// that does not exist yet.
func FreePath(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	base, ext := SplitName(name)
	for i := 1; ; i++ {
		taken, err := Exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, base+"-"+strconv.Itoa(i)+ext)
	}
}
