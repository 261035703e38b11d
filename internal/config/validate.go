package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrNoListener             = errors.New("listen-http must be defined")
	ErrInvalidListenAddress   = errors.New("listen-http must be in host:port form")
	ErrRootNotDirectory       = errors.New("root must be a directory")
	ErrInvalidOpenPath        = errors.New("open-path must start with /")
	ErrInvalidStatusPath      = errors.New("status-path must start with /")
	ErrInvalidLogFormat       = errors.New("log-format must be either 'text' or 'json'")
	ErrNegativeMaxConns       = errors.New("max-conns must be greater than or equal to 0")
	ErrNegativeMaxURILength   = errors.New("max-uri-length must be greater than or equal to 0")
	ErrInvalidShutdownTimeout = errors.New("server-shutdown-timeout must be greater than 0")
)

// Validate checks the configuration and returns all the problems found
func Validate(config *Config) error {
	var result *multierror.Error

	result = multierror.Append(result,
		validateListener(config),
		validateRootDir(config),
		validatePaths(config),
		validateLimits(config),
	)

	if f := config.Log.Format; f != "text" && f != "json" {
		result = multierror.Append(result, ErrInvalidLogFormat)
	}

	return result.ErrorOrNil()
}

func validateListener(config *Config) error {
	addr := config.General.ListenHTTP
	if addr == "" {
		return ErrNoListener
	}

	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidListenAddress, err)
	}

	return nil
}

func validateRootDir(config *Config) error {
	fi, err := os.Stat(config.General.RootDir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRootNotDirectory, err)
	}

	if !fi.IsDir() {
		return fmt.Errorf("%w: %q", ErrRootNotDirectory, config.General.RootDir)
	}

	return nil
}

func validatePaths(config *Config) error {
	var result *multierror.Error

	if !strings.HasPrefix(config.Browser.Path, "/") {
		result = multierror.Append(result, ErrInvalidOpenPath)
	}

	if p := config.General.StatusPath; p != "" && !strings.HasPrefix(p, "/") {
		result = multierror.Append(result, ErrInvalidStatusPath)
	}

	return result.ErrorOrNil()
}

func validateLimits(config *Config) error {
	var result *multierror.Error

	if config.General.MaxConns < 0 {
		result = multierror.Append(result, ErrNegativeMaxConns)
	}

	if config.General.MaxURILength < 0 {
		result = multierror.Append(result, ErrNegativeMaxURILength)
	}

	if config.Server.ShutdownTimeout <= 0 {
		result = multierror.Append(result, ErrInvalidShutdownTimeout)
	}

	return result.ErrorOrNil()
}
