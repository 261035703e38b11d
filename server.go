package main

import (
	"errors"
	"net"
	"net/http"
	"time"

	"gitlab.com/neoarena/devserver/internal/netutil"
	"gitlab.com/neoarena/devserver/metrics"
)

type keepAliveListener struct {
	net.Listener
	period time.Duration
}

type keepAliveSetter interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
}

func (ln *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if kc, ok := conn.(keepAliveSetter); ok {
		kc.SetKeepAlive(true)
		kc.SetKeepAlivePeriod(ln.period)
	}

	return conn, nil
}

// listen binds the HTTP listener. A failure here means the server never
// starts.
func (a *theApp) listen() (net.Listener, error) {
	return net.Listen("tcp", a.config.General.ListenHTTP)
}

// wrapListener applies the connection limit and TCP keep-alive to l
func (a *theApp) wrapListener(l net.Listener) net.Listener {
	if a.config.General.MaxConns > 0 {
		limiter := netutil.NewLimiter(
			a.config.General.MaxConns,
			metrics.LimitListenerMaxConns,
			metrics.LimitListenerConcurrentConns,
			metrics.LimitListenerWaitingConns,
		)

		l = netutil.LimitListener(l, limiter)
	}

	if a.config.Server.ListenKeepAlive > 0 {
		l = &keepAliveListener{Listener: l, period: a.config.Server.ListenKeepAlive}
	}

	return l
}

func (a *theApp) newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       a.config.Server.ReadTimeout,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
		WriteTimeout:      a.config.Server.WriteTimeout,
	}
}

func serve(server *http.Server, l net.Listener) error {
	if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
