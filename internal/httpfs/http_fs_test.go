package httpfs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupRoot(t *testing.T) (root string, outside string) {
	t.Helper()

	base := t.TempDir()
	root = filepath.Join(base, "public")
	outside = filepath.Join(base, "secret.txt")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "subdir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file1.txt"), []byte("file1.txt\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "subdir", "file2.txt"), []byte("subdir/file2.txt\n"), 0644))
	require.NoError(t, os.WriteFile(outside, []byte("secret\n"), 0644))

	require.NoError(t, os.Symlink(filepath.Join(root, "file1.txt"), filepath.Join(root, "inside-link.txt")))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "outside-link.txt")))

	return root, outside
}

func TestFSOpen(t *testing.T) {
	root, _ := setupRoot(t)

	tests := map[string]struct {
		fileName        string
		expectedContent string
		expectedErr     error
	}{
		"file_in_root": {
			fileName:        "/file1.txt",
			expectedContent: "file1.txt\n",
		},
		"file_in_subdir": {
			fileName:        "/subdir/file2.txt",
			expectedContent: "subdir/file2.txt\n",
		},
		"file_does_not_exist": {
			fileName:    "/unknown.txt",
			expectedErr: os.ErrNotExist,
		},
		"dot_dot_is_clamped_to_root": {
			fileName:    "/../secret.txt",
			expectedErr: os.ErrNotExist,
		},
		"dot_dot_inside_root_resolved": {
			fileName:        "/subdir/../file1.txt",
			expectedContent: "file1.txt\n",
		},
		"symlink_inside_root": {
			fileName:        "/inside-link.txt",
			expectedContent: "file1.txt\n",
		},
		"symlink_outside_root": {
			fileName:    "/outside-link.txt",
			expectedErr: os.ErrPermission,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := NewFileSystem(root)
			require.NoError(t, err)

			got, err := p.Open(test.fileName)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}

			require.NoError(t, err)
			defer got.Close()

			content, err := io.ReadAll(got)
			require.NoError(t, err)

			require.Equal(t, test.expectedContent, string(content))
		})
	}
}

func TestFSOpenRootDirectory(t *testing.T) {
	root, _ := setupRoot(t)

	p, err := NewFileSystem(root)
	require.NoError(t, err)

	dir, err := p.Open("/")
	require.NoError(t, err)
	defer dir.Close()

	fi, err := dir.Stat()
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestContains(t *testing.T) {
	tests := map[string]struct {
		root     string
		target   string
		expected bool
	}{
		"same":            {root: "/srv/www", target: "/srv/www", expected: true},
		"child":           {root: "/srv/www", target: "/srv/www/quiz.html", expected: true},
		"sibling_prefix":  {root: "/srv/www", target: "/srv/www2/quiz.html", expected: false},
		"parent":          {root: "/srv/www", target: "/srv", expected: false},
		"filesystem_root": {root: "/", target: "/etc/passwd", expected: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.expected, Contains(tt.root, tt.target))
		})
	}
}
