package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"

	"gitlab.com/neoarena/devserver/internal/errortracking"
)

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	err := fmt.Errorf("panic while serving request: %s", fmt.Sprint(v...))

	log.WithError(err).Error("recovered from panic")
	errortracking.CaptureErrWithStackTrace(err)
}

// RecoveryHandler turns a panicking handler into a 500 response
func RecoveryHandler(handler http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
	)(handler)
}
