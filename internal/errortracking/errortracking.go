package errortracking

import (
	"net/http"

	"gitlab.com/gitlab-org/labkit/errortracking"
)

// Initialize configures Sentry error reporting. It is a no-op when dsn is empty.
func Initialize(dsn, environment, version string) error {
	if dsn == "" {
		return nil
	}

	return errortracking.Initialize(
		errortracking.WithSentryDSN(dsn),
		errortracking.WithVersion(version),
		errortracking.WithLoggerName("devserver"),
		errortracking.WithSentryEnvironment(environment),
	)
}

// CaptureErrWithReqAndStackTrace calls labkit's errortracking function and attaches the request and stack trace
func CaptureErrWithReqAndStackTrace(err error, r *http.Request) {
	errortracking.Capture(err,
		errortracking.WithContext(r.Context()),
		errortracking.WithRequest(r),
		errortracking.WithStackTrace(),
	)
}

// CaptureErrWithStackTrace calls labkit's errortracking function and attaches the stack trace
func CaptureErrWithStackTrace(err error) {
	errortracking.Capture(err, errortracking.WithStackTrace())
}
