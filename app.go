package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"
	"golang.org/x/sync/errgroup"

	"gitlab.com/neoarena/devserver/internal/browser"
	"gitlab.com/neoarena/devserver/internal/config"
	"gitlab.com/neoarena/devserver/internal/customheaders"
	"gitlab.com/neoarena/devserver/internal/handlers"
	"gitlab.com/neoarena/devserver/internal/healthcheck"
	"gitlab.com/neoarena/devserver/internal/logging"
	"gitlab.com/neoarena/devserver/internal/rejectmethods"
	"gitlab.com/neoarena/devserver/internal/serving"
	"gitlab.com/neoarena/devserver/internal/urilimiter"
	"gitlab.com/neoarena/devserver/metrics"
)

const notifyTimeout = 10 * time.Second

// httpMetrics registers its collectors when created, so there is one per process
var httpMetrics = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("devserver"))

type theApp struct {
	config   *config.Config
	notifier browser.Notifier
	stdout   io.Writer
}

func newApp(cfg *config.Config, stdout io.Writer) *theApp {
	var notifier browser.Notifier = browser.Disabled{}
	if cfg.Browser.Open {
		notifier = browser.NewSystem()
	}

	return &theApp{
		config:   cfg,
		notifier: notifier,
		stdout:   stdout,
	}
}

// buildHandlerPipeline wires the middlewares around the file server. The
// first handler listed below is the outermost one:
//
//	correlation ID > access log > HTTP metrics > response headers >
//	panic recovery > method check > URI limit > health check > CORS > files
func (a *theApp) buildHandlerPipeline() (http.Handler, error) {
	fileServer, err := serving.New(a.config.General.RootDir)
	if err != nil {
		return nil, err
	}

	var handler http.Handler = fileServer
	handler = handlers.CorsHandler(a.config, handler)
	handler = healthcheck.NewMiddleware(handler, a.config.General.StatusPath)
	handler = urilimiter.NewMiddleware(handler, a.config.General.MaxURILength)
	handler = rejectmethods.NewMiddleware(handler)
	handler = handlers.RecoveryHandler(handler)

	customHeaders, err := customheaders.ParseHeaderString(a.config.General.CustomHeaders)
	if err != nil {
		return nil, fmt.Errorf("parsing custom headers: %w", err)
	}
	handler = customheaders.NewMiddleware(handler, customHeaders)

	handler = httpMetrics(handler)

	handler, err = logging.BasicAccessLogger(handler, a.config.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("configuring access logger: %w", err)
	}

	var correlationOpts []correlation.InboundHandlerOption
	if a.config.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}
	handler = correlation.InjectCorrelationID(handler, correlationOpts...)

	return handler, nil
}

// Run binds the listeners, serves until ctx is done and opens the browser
// alongside serving. Nothing is served and the notifier is not called when
// binding fails.
func (a *theApp) Run(ctx context.Context) error {
	handler, err := a.buildHandlerPipeline()
	if err != nil {
		return err
	}

	l, err := a.listen()
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.config.General.ListenHTTP, err)
	}

	servers := []*http.Server{a.newServer(handler)}
	listeners := []net.Listener{a.wrapListener(l)}

	if addr := a.config.General.MetricsAddress; addr != "" {
		ml, err := net.Listen("tcp", addr)
		if err != nil {
			l.Close()
			return fmt.Errorf("listening on metrics address %s: %w", addr, err)
		}

		servers = append(servers, a.newServer(promhttp.Handler()))
		listeners = append(listeners, ml)

		log.WithField("listener", ml.Addr().String()).Info("serving metrics")
	}

	a.warnMissingOpenPath()
	a.printBanner(l.Addr())

	eg, ctx := errgroup.WithContext(ctx)

	for i := range servers {
		server, listener := servers[i], listeners[i]
		eg.Go(func() error {
			return serve(server, listener)
		})
	}

	// the listener is bound, so requests queue up while the launcher runs
	quizURL := browser.LocalURL(l.Addr(), a.config.Browser.Path)
	eg.Go(func() error {
		a.notify(ctx, quizURL)
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		a.shutdown(servers)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "\n✅ Server stopped")

	return nil
}

func (a *theApp) notify(ctx context.Context, quizURL string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	err := a.notifier.Notify(ctx, quizURL)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		// stopped before the launcher returned
	case errors.Is(err, context.DeadlineExceeded):
		log.WithField("url", quizURL).Debug("browser launcher still running")
	default:
		metrics.BrowserOpenFailures.Inc()
		log.WithError(err).WithField("url", quizURL).Warn("could not open browser, open the URL manually")
	}
}

// warnMissingOpenPath warns when the page opened in the browser is not below
// the root directory. With `go run` the executable lives in a temporary
// directory, so the default root is empty.
func (a *theApp) warnMissingOpenPath() {
	u, err := url.Parse(a.config.Browser.Path)
	if err != nil {
		return
	}

	target := filepath.Join(a.config.General.RootDir, filepath.FromSlash(path.Clean("/"+u.Path)))
	if _, err := os.Stat(target); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"root":      a.config.General.RootDir,
			"open-path": a.config.Browser.Path,
		}).Warn("open path not found in root directory, use -root to serve another directory")
	}
}

// shutdown stops accepting connections and waits for in-flight requests.
// Connections still open after the shutdown timeout are closed.
func (a *theApp) shutdown(servers []*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("graceful shutdown timed out, closing connections")
			server.Close()
		}
	}
}

func (a *theApp) printBanner(addr net.Addr) {
	fmt.Fprintf(a.stdout, "🚀 Server running at %s\n", browser.LocalURL(addr, "/"))
	fmt.Fprintf(a.stdout, "📂 Serving %s\n", a.config.General.RootDir)
	fmt.Fprintf(a.stdout, "🧩 Open %s to start the quiz\n", browser.LocalURL(addr, a.config.Browser.Path))
	fmt.Fprintln(a.stdout, "🦊 Make sure MetaMask is installed and connected to the Sepolia testnet")
	fmt.Fprintln(a.stdout, "⏹  Press Ctrl+C to stop the server")
}
