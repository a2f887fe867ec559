package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caffeineduck/gobook/notebook"
)

// ErrNotFound reports that no notebook satisfies a module name. Finders
// consume it as their decline signal; it only reaches the importer when
// every finder in the chain has declined.
var ErrNotFound = errors.New("notebook not found")

// FindNotebook locates the notebook for a dotted module name.
//
// Only the last segment of the name is used: "foo.bar" resolves to
// "bar.ipynb". Directories are searched in order and the first match
// wins; an empty path means the current directory. In each directory the
// literal filename is tried first, then a variant with underscores
// replaced by spaces, so "import Notebook_Name" finds "Notebook Name.ipynb".
func FindNotebook(name string, path []string) (string, error) {
	segment := name
	if idx := strings.LastIndex(name, "."); idx != -1 {
		segment = name[idx+1:]
	}

	dirs := path
	if len(dirs) == 0 {
		dirs = []string{""}
	}

	for _, dir := range dirs {
		p := filepath.Join(dir, segment+notebook.Ext)
		if isFile(p) {
			return p, nil
		}
		alt := filepath.Join(dir, strings.ReplaceAll(segment, "_", " ")+notebook.Ext)
		if alt != p && isFile(alt) {
			return alt, nil
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
