package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TmpSiteDir creates a small site to serve and returns its root together with
// the path of a secret file stored next to (not inside) the root. The layout is:
//
//	secret.txt
//	public/quiz.html            <html>Q</html>
//	public/style.css
//	public/README               no extension
//	public/alias.html           -> quiz.html
//	public/escape.txt           -> ../secret.txt
//	public/escape-dir           -> ..
//	public/game/index.html      <html>game</html>
//	public/js/quiz.js
func TmpSiteDir(tb testing.TB) (root string, secret string) {
	tb.Helper()

	tmpDir := tb.TempDir()

	// On some systems `/tmp` can be a symlink
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(tb, err)

	root = filepath.Join(tmpDir, "public")
	secret = filepath.Join(tmpDir, "secret.txt")

	files := map[string]string{
		secret:                                    "top secret wallet seed\n",
		filepath.Join(root, "quiz.html"):          "<html>Q</html>",
		filepath.Join(root, "style.css"):          "body { margin: 0; }\n",
		filepath.Join(root, "README"):             "plain text readme\n",
		filepath.Join(root, "game", "index.html"): "<html>game</html>",
		filepath.Join(root, "js", "quiz.js"):      "console.log('quiz');\n",
	}

	for path, content := range files {
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(tb, os.WriteFile(path, []byte(content), 0644))
	}

	require.NoError(tb, os.Symlink(filepath.Join(root, "quiz.html"), filepath.Join(root, "alias.html")))
	require.NoError(tb, os.Symlink(secret, filepath.Join(root, "escape.txt")))
	require.NoError(tb, os.Symlink(tmpDir, filepath.Join(root, "escape-dir")))

	return root, secret
}
