package rejectmethods

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK\n")
	})

	middleware := NewMiddleware(handler)

	for _, method := range []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "CONNECT", "OPTIONS", "TRACE"} {
		t.Run(method, func(t *testing.T) {
			require.HTTPStatusCode(t, middleware.ServeHTTP, method, "/", nil, http.StatusOK)
		})
	}

	for _, method := range []string{"UNKNOWN", "PROPFIND", "get"} {
		t.Run(method, func(t *testing.T) {
			require.HTTPStatusCode(t, middleware.ServeHTTP, method, "/", nil, http.StatusMethodNotAllowed)
			require.HTTPBodyContains(t, middleware.ServeHTTP, method, "/", nil, "Method Not Allowed")
		})
	}
}
