package customheaders

import (
	"net/http"
)

// NewMiddleware returns middleware which inject custom headers into the
// response, followed by the isolation headers. An isolation header given in
// headers is overridden so it is still sent exactly once.
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	isolation := IsolationHeaders()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddCustomHeaders(w, headers)
		SetHeaders(w, isolation)

		handler.ServeHTTP(w, r)
	})
}
