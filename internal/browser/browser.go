package browser

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -destination mock/browser_mock.go -package mock gitlab.com/neoarena/devserver/internal/browser Notifier

// Notifier tells the user where the server can be reached
type Notifier interface {
	Notify(ctx context.Context, url string) error
}

var redirectOutput sync.Once

// System opens URLs in the default browser of the desktop session
type System struct {
	openURL func(url string) error
}

// NewSystem returns a Notifier backed by the platform's URL launcher
// (open, xdg-open or rundll32). Launcher output goes to the debug log.
func NewSystem() *System {
	redirectOutput.Do(func() {
		w := log.StandardLogger().WriterLevel(log.DebugLevel)
		browser.Stdout = w
		browser.Stderr = w
	})

	return &System{openURL: browser.OpenURL}
}

// Notify launches the browser and waits for the launcher to return or for ctx
// to be done, whichever comes first
func (s *System) Notify(ctx context.Context, url string) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.openURL(url)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("opening %s in browser: %w", url, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disabled is used when the browser should not be opened
type Disabled struct{}

// Notify only logs the URL
func (Disabled) Notify(_ context.Context, url string) error {
	log.WithField("url", url).Info("not opening browser")
	return nil
}

// LocalURL builds the localhost URL for path on the port addr listens on
func LocalURL(addr net.Addr, path string) string {
	port := 0
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	} else if _, p, err := net.SplitHostPort(addr.String()); err == nil {
		port, _ = strconv.Atoi(p)
	}

	return fmt.Sprintf("http://localhost:%d%s", port, path)
}
