package main

import (
	log "github.com/sirupsen/logrus"

	"gitlab.com/neoarena/devserver/internal/errortracking"
)

func fatal(err error, message string) {
	log.WithError(err).Fatal(message)
}

func capturingFatal(err error, message string) {
	errortracking.CaptureErrWithStackTrace(err)
	fatal(err, message)
}
