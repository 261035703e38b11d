//go:build !unix

package serving

import "os"

// paths handed to openNoFollow are already resolved by resolvePath
func openNoFollow(path string) (*os.File, error) {
	return os.Open(path)
}
