package serving

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/neoarena/devserver/internal/httperrors"
	"gitlab.com/neoarena/devserver/internal/httpfs"
	"gitlab.com/neoarena/devserver/internal/logging"
	"gitlab.com/neoarena/devserver/metrics"
)

// Handler serves the files below a root directory. Directories are handed to
// http.FileServer for the trailing slash redirect, index.html and listings.
type Handler struct {
	root           string
	dirServer      http.Handler
	fileSizeMetric prometheus.Histogram
	notFoundMetric prometheus.Counter
}

// New returns a Handler serving files from root. root must be absolute and
// free of symlinks, as returned by config.LoadConfig.
func New(root string) (*Handler, error) {
	fs, err := httpfs.NewFileSystem(root)
	if err != nil {
		return nil, err
	}

	return &Handler{
		root:           root,
		dirServer:      http.FileServer(fs),
		fileSizeMetric: metrics.ServedFileSize,
		notFoundMetric: metrics.NotFoundTotal,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httperrors.Serve501(w)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")

	fullPath, err := resolvePath(h.root, r.URL.Path)
	switch {
	case err == nil:
		if err := h.serveFile(w, r, fullPath); err != nil {
			httperrors.Serve500WithRequest(w, r, "failed to serve file", err)
		}
	case errors.Is(err, errIsDirectory):
		h.dirServer.ServeHTTP(w, r)
	default:
		logging.LogRequest(r).WithError(err).Debug("request does not resolve to a file")
		h.notFoundMetric.Inc()
		httperrors.Serve404(w)
	}
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, fullPath string) error {
	file, err := openNoFollow(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		return err
	}

	h.fileSizeMetric.Observe(float64(fi.Size()))

	w.Header().Set("Content-Type", detectContentType(file))
	http.ServeContent(w, r, fullPath, fi.ModTime(), file)

	return nil
}
