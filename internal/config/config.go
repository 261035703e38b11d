package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"
)

// Config stores all the config options relevant to the development server.
// It is built once at startup and not modified afterwards.
type Config struct {
	General General
	Browser Browser
	Server  Server
	Log     Log
	Sentry  Sentry
}

// General groups settings that are general to the server and can not
// be categorized under other head.
type General struct {
	ListenHTTP     string
	RootDir        string
	MetricsAddress string
	StatusPath     string
	MaxConns       int
	MaxURILength   int

	DisableCrossOriginRequests bool
	PropagateCorrelationID     bool

	ShowVersion bool

	CustomHeaders []string
}

// Browser groups settings related to opening a browser tab once the server
// is listening
type Browser struct {
	Open bool
	Path string
}

// Server groups settings related to the HTTP server timeouts
type Server struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ListenKeepAlive   time.Duration
	ShutdownTimeout   time.Duration
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// resolveRootDir returns the absolute, symlink free directory files are
// served from. An empty dir means the directory holding the executable.
func resolveRootDir(dir string) (string, error) {
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locating executable: %w", err)
		}

		dir = filepath.Dir(exe)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving root directory %q: %w", dir, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving root directory %q: %w", dir, err)
	}

	return resolved, nil
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			ListenHTTP:                 strings.TrimSpace(*listenHTTP),
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			MaxConns:                   *maxConns,
			MaxURILength:               *maxURILength,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			PropagateCorrelationID:     *propagateCorrelationID,
			ShowVersion:                *showVersion,
			CustomHeaders:              header.Split(),
		},
		Browser: Browser{
			Open: *openBrowser,
			Path: *openPath,
		},
		Server: Server{
			ReadTimeout:       *serverReadTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			WriteTimeout:      *serverWriteTimeout,
			ListenKeepAlive:   *serverKeepAlive,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},
	}

	if config.General.ShowVersion {
		return config, nil
	}

	var err error
	if config.General.RootDir, err = resolveRootDir(*rootDir); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig logs the effective configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"header":                        config.General.CustomHeaders,
		"listen-http":                   config.General.ListenHTTP,
		"log-format":                    config.Log.Format,
		"log-verbose":                   config.Log.Verbose,
		"max-conns":                     config.General.MaxConns,
		"max-uri-length":                config.General.MaxURILength,
		"metrics-address":               config.General.MetricsAddress,
		"open-browser":                  config.Browser.Open,
		"open-path":                     config.Browser.Path,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"root":                          config.General.RootDir,
		"server-read-timeout":           config.Server.ReadTimeout,
		"server-read-header-timeout":    config.Server.ReadHeaderTimeout,
		"server-write-timeout":          config.Server.WriteTimeout,
		"server-keep-alive":             config.Server.ListenKeepAlive,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
		"status-path":                   config.General.StatusPath,
	}).Debug("Start devserver with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments,
// DEVSERVER_* environment variables or a config file, and populates a Config
// object with those values
func LoadConfig(args []string) (*Config, error) {
	if err := initFlags(args); err != nil {
		return nil, err
	}

	return loadConfig()
}
