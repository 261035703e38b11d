package serving

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// Detect file's content-type either by extension or mime-sniffing.
// Implementation is adapted from Golang's `http.serveContent()`
// See https://github.com/golang/go/blob/902fc114272978a40d2e65c2510a18e870077559/src/net/http/fs.go#L194
func detectContentType(file *os.File) string {
	contentType := mime.TypeByExtension(filepath.Ext(file.Name()))

	if contentType == "" {
		var buf [512]byte

		// Reading through a SectionReader leaves the file offset untouched for
		// http.ServeContent. Errors are ignored because we don't care if the
		// 512 bytes cannot be read.
		n, _ := io.ReadFull(io.NewSectionReader(file, 0, int64(len(buf))), buf[:])
		contentType = http.DetectContentType(buf[:n])
	}

	return contentType
}
