package config

import (
	"time"

	"github.com/namsral/flag"
)

const envPrefix = "DEVSERVER"

var (
	listenHTTP                 *string
	rootDir                    *string
	openBrowser                *bool
	openPath                   *string
	statusPath                 *string
	metricsAddress             *string
	maxConns                   *int
	maxURILength               *int
	disableCrossOriginRequests *bool
	propagateCorrelationID     *bool
	logFormat                  *string
	logVerbose                 *bool
	sentryDSN                  *string
	sentryEnvironment          *string
	showVersion                *bool

	// HTTP server timeouts
	serverReadTimeout       *time.Duration
	serverReadHeaderTimeout *time.Duration
	serverWriteTimeout      *time.Duration
	serverKeepAlive         *time.Duration
	serverShutdownTimeout   *time.Duration

	// See registerFlags()
	header MultiStringFlag
)

// registerFlags defines every flag on fs. It resets flag state so that it can
// be called more than once.
func registerFlags(fs *flag.FlagSet) {
	listenHTTP = fs.String("listen-http", ":5173", "The address to listen on for HTTP requests")
	rootDir = fs.String("root", "", "The directory files are served from (defaults to the directory of the executable)")
	openBrowser = fs.Bool("open-browser", true, "Open a browser tab once the server is listening")
	openPath = fs.String("open-path", "/quiz.html", "The URL path opened in the browser")
	statusPath = fs.String("status-path", "", "The url path for a status page, e.g., /-/healthcheck")
	metricsAddress = fs.String("metrics-address", "", "The address to listen on for metrics requests")
	maxConns = fs.Int("max-conns", 0, "Limit on the number of concurrent connections to the HTTP listener, 0 for no limit")
	maxURILength = fs.Int("max-uri-length", 0, "Limit the length of URI, 0 for unlimited.")
	disableCrossOriginRequests = fs.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")
	propagateCorrelationID = fs.Bool("propagate-correlation-id", false, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")
	logFormat = fs.String("log-format", "text", "The log output format: 'text' or 'json'")
	logVerbose = fs.Bool("log-verbose", false, "Verbose logging")
	sentryDSN = fs.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment = fs.String("sentry-environment", "", "The environment for sentry crash reporting")
	showVersion = fs.Bool("version", false, "Show version")

	serverReadTimeout = fs.Duration("server-read-timeout", 5*time.Second, "ReadTimeout is the maximum duration for reading the entire request, including the body. A zero or negative value means there will be no timeout.")
	serverReadHeaderTimeout = fs.Duration("server-read-header-timeout", time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverWriteTimeout = fs.Duration("server-write-timeout", 0, "WriteTimeout is the maximum duration before timing out writes of the response. A zero or negative value means there will be no timeout.")
	serverKeepAlive = fs.Duration("server-keep-alive", 15*time.Second, "KeepAlive specifies the keep-alive period for network connections accepted by this listener.")
	serverShutdownTimeout = fs.Duration("server-shutdown-timeout", 5*time.Second, "Time to wait for in-flight requests when the server is stopped")

	header = MultiStringFlag{separator: ";;"}
	fs.Var(&header, "header", "The additional http header(s) that should be send to the client")

	// read from -config=/path/to/devserver-config
	fs.String(flag.DefaultConfigFlagname, "", "path to config file")
}

// initFlags will be called from LoadConfig. args includes the program name.
func initFlags(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix(args[0], envPrefix, flag.ContinueOnError)
	registerFlags(fs)

	return fs.Parse(args[1:])
}
