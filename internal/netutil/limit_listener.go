package netutil

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var errKeepAliveNotSupported = errors.New("keepalive not supported")

// Limiter bounds the number of connections served at the same time.
// Connections over the limit wait in Accept until a slot frees up.
type Limiter struct {
	slots   chan struct{}
	active  prometheus.Gauge
	waiting prometheus.Gauge
}

// NewLimiter creates a Limiter with n slots and reports its state to the
// given gauges
func NewLimiter(n int, maxConns, active, waiting prometheus.Gauge) *Limiter {
	maxConns.Set(float64(n))

	return &Limiter{
		slots:   make(chan struct{}, n),
		active:  active,
		waiting: waiting,
	}
}

func (l *Limiter) acquire(done <-chan struct{}) bool {
	l.waiting.Inc()
	defer l.waiting.Dec()

	select {
	case <-done:
		return false
	case l.slots <- struct{}{}:
		l.active.Inc()
		return true
	}
}

func (l *Limiter) release() {
	<-l.slots
	l.active.Dec()
}

// LimitListener wraps listener so that it accepts connections only while
// limiter has free slots
func LimitListener(listener net.Listener, limiter *Limiter) net.Listener {
	return &limitListener{
		Listener: listener,
		limiter:  limiter,
		done:     make(chan struct{}),
	}
}

type limitListener struct {
	net.Listener
	limiter   *Limiter
	closeOnce sync.Once
	done      chan struct{}
}

func (l *limitListener) Accept() (net.Conn, error) {
	acquired := l.limiter.acquire(l.done)

	// a closed listener makes the Accept below fail right away
	c, err := l.Listener.Accept()
	if err != nil {
		if acquired {
			l.limiter.release()
		}
		return nil, err
	}

	if !acquired {
		c.Close()
		return nil, net.ErrClosed
	}

	tcpConn, _ := c.(*net.TCPConn)

	return &limitedConn{
		Conn:    c,
		tcpConn: tcpConn,
		release: l.limiter.release,
	}, nil
}

func (l *limitListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.done) })
	return err
}

type limitedConn struct {
	net.Conn
	tcpConn     *net.TCPConn
	releaseOnce sync.Once
	release     func()
}

func (c *limitedConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)
	return err
}

// SetKeepAlive and SetKeepAlivePeriod let the server keep-alive wrapper
// reach the underlying TCP connection.
func (c *limitedConn) SetKeepAlive(enabled bool) error {
	if c.tcpConn == nil {
		return errKeepAliveNotSupported
	}

	return c.tcpConn.SetKeepAlive(enabled)
}

func (c *limitedConn) SetKeepAlivePeriod(period time.Duration) error {
	if c.tcpConn == nil {
		return errKeepAliveNotSupported
	}

	return c.tcpConn.SetKeepAlivePeriod(period)
}
