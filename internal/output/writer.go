// Package output writes serialized cards into the output directory.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rcliao/ccextract/internal/model"
)

const (
	// GroupsDir is the subdirectory receiving group cards.
	GroupsDir = "groups"

	// Ext is the extension of every written card.
	Ext = ".vcf"

	lineBreak = "\r\n"
)

// ErrNotDirectory is returned when an output path exists but is not a directory.
var ErrNotDirectory = errors.New("exists but is not a directory")

// Writer persists cards under a root directory. The existence check and the
// create are not one atomic step across processes; use one Writer per
// directory from a single goroutine.
type Writer struct {
	root string
}

// NewWriter prepares root and its groups subdirectory, creating them when
// absent. created reports whether root itself had to be created.
func NewWriter(root string) (w *Writer, created bool, err error) {
	created, err = ensureDir(root)
	if err != nil {
		return nil, false, err
	}
	if _, err := ensureDir(filepath.Join(root, GroupsDir)); err != nil {
		return nil, false, err
	}
	return &Writer{root: root}, created, nil
}

// Root returns the output directory.
func (w *Writer) Root() string {
	return w.root
}

// WriteContact writes a contact card named after basis and returns its path.
func (w *Writer) WriteContact(basis, text string) (string, error) {
	return writeUnique(w.root, basis, text)
}

// WriteGroup writes a group card into the groups subdirectory.
func (w *Writer) WriteGroup(basis, text string) (string, error) {
	return writeUnique(filepath.Join(w.root, GroupsDir), basis, text)
}

func ensureDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return false, fmt.Errorf("create dir %s: %w", path, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return false, nil
}

// writeUnique creates dir/base.vcf, or dir/base - N.vcf with the first free
// N starting at 2. Existing files are never opened for writing.
func writeUnique(dir, basis, text string) (string, error) {
	base := FileName(basis)
	for n := 1; ; n++ {
		name := base
		if n > 1 {
			name += " - " + strconv.Itoa(n)
		}
		path := filepath.Join(dir, name+Ext)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := f.WriteString(text + lineBreak); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
}

// FileName turns a display name into a safe base file name without extension.
func FileName(basis string) string {
	basis = norm.NFC.String(basis)
	var b strings.Builder
	for _, r := range basis {
		switch {
		case r == '/' || r == '\\' || r == 0:
			b.WriteRune('-')
		case r < 0x20:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return model.Placeholder
	}
	return out
}
