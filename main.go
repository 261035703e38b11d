package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/go-mimedb"

	"gitlab.com/neoarena/devserver/internal/config"
	"gitlab.com/neoarena/devserver/internal/errortracking"
	"gitlab.com/neoarena/devserver/internal/logging"
	"gitlab.com/neoarena/devserver/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func appMain() {
	cfg, err := config.LoadConfig(os.Args)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fatal(err, "invalid configuration")
	}

	printVersion(cfg.General.ShowVersion, VERSION)

	if err := logging.ConfigureLogging(cfg.Log.Format, cfg.Log.Verbose); err != nil {
		fatal(err, "failed to initialize logging")
	}

	if err := errortracking.Initialize(cfg.Sentry.DSN, cfg.Sentry.Environment, fmt.Sprintf("%s-%s", VERSION, REVISION)); err != nil {
		log.WithError(err).Warn("failed to initialize error tracking")
	}

	// extend the system mime.types, if any, before anything is served
	if err := mimedb.LoadTypes(); err != nil {
		log.WithError(err).Warn("loading extended MIME types")
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("Quiz arena development server")

	config.LogConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg, os.Stdout)
	if err := app.Run(ctx); err != nil {
		capturingFatal(err, "devserver stopped with an error")
	}
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func main() {
	log.SetOutput(os.Stderr)

	metrics.MustRegister()

	appMain()
}
