package serving

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gitlab.com/neoarena/devserver/internal/httpfs"
)

var (
	errIsDirectory      = errors.New("location error accessing directory where file expected")
	errFileNotFound     = errors.New("file not found")
	errNotRegularFile   = errors.New("not a regular file")
	errFileNotInRootDir = errors.New("file found outside of root directory")
)

// resolvePath maps the request URL path onto a regular file below root.
// root must be absolute and free of symlinks.
func resolvePath(root, urlPath string) (string, error) {
	if filepath.Separator != '/' && strings.ContainsRune(urlPath, filepath.Separator) {
		return "", errFileNotFound
	}

	testPath := filepath.Join(root, filepath.FromSlash(path.Clean("/"+urlPath)))

	fullPath, err := filepath.EvalSymlinks(testPath)
	if err != nil {
		return "", errFileNotFound
	}

	// The requested path resolved to somewhere outside of the root directory
	if !httpfs.Contains(root, fullPath) {
		return "", errFileNotInRootDir
	}

	fi, err := os.Lstat(fullPath)
	if err != nil {
		return "", errFileNotFound
	}

	if fi.IsDir() {
		return "", errIsDirectory
	}

	// The file exists, but is not a supported type to serve. Perhaps a block
	// special device or something else that may be a security risk.
	if !fi.Mode().IsRegular() {
		return "", errNotRegularFile
	}

	return fullPath, nil
}
