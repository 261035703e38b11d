// Based on https://golang.org/src/net/http/fs.go

package httpfs

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gitlab.com/gitlab-org/labkit/log"
)

var (
	errInvalidChar = errors.New("http: invalid character in file path")
)

// rootFileSystem implements the http.FileSystem interface and refuses to
// open anything that resolves outside of root
type rootFileSystem struct {
	root string
}

// NewFileSystem creates an http.FileSystem serving files below root.
// Symlinks are followed as long as their target stays below root.
func NewFileSystem(root string) (http.FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	return &rootFileSystem{root: resolved}, nil
}

// Open a file by name if it exists inside root
func (p *rootFileSystem) Open(name string) (http.File, error) {
	// taken from http.Dir#open https://golang.org/src/net/http/fs.go?s=2108:2152#L70
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		return nil, errInvalidChar
	}

	fullPath := filepath.Join(p.root, filepath.FromSlash(path.Clean("/"+name)))

	resolved, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, err
	}

	if !Contains(p.root, resolved) {
		log.WithError(os.ErrPermission).Errorf("requested filepath %q resolves to %q outside of %q", fullPath, resolved, p.root)

		// os.ErrPermission is converted to http.StatusForbidden
		// https://github.com/golang/go/blob/release-branch.go1.15/src/net/http/fs.go#L635
		return nil, os.ErrPermission
	}

	return os.Open(resolved)
}

// Contains reports whether target is root itself or lies below it. Both
// paths must be absolute and clean.
func Contains(root, target string) bool {
	if target == root {
		return true
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	return strings.HasPrefix(target, prefix)
}
