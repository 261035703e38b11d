package netutil

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(n int) (*Limiter, prometheus.Gauge, prometheus.Gauge, prometheus.Gauge) {
	maxConns := prometheus.NewGauge(prometheus.GaugeOpts{Name: "max"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{Name: "active"})
	waiting := prometheus.NewGauge(prometheus.GaugeOpts{Name: "waiting"})

	return NewLimiter(n, maxConns, active, waiting), maxConns, active, waiting
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestLimitListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	limiter, maxConns, active, _ := newTestLimiter(1)
	limited := LimitListener(ln, limiter)
	t.Cleanup(func() { limited.Close() })

	require.Equal(t, float64(1), testutil.ToFloat64(maxConns))

	dial(t, ln.Addr().String())
	dial(t, ln.Addr().String())

	first, err := limited.Accept()
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(active))

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := limited.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	select {
	case <-accepted:
		t.Fatal("second connection accepted while the only slot is taken")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, first.Close())

	select {
	case second := <-accepted:
		require.Equal(t, float64(1), testutil.ToFloat64(active))
		require.NoError(t, second.Close())
	case <-time.After(5 * time.Second):
		t.Fatal("second connection was not accepted after a slot was released")
	}

	require.Equal(t, float64(0), testutil.ToFloat64(active))
}

func TestLimitListenerCloseUnblocksAccept(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	limiter, _, _, waiting := newTestLimiter(1)
	limited := LimitListener(ln, limiter)

	dial(t, ln.Addr().String())

	first, err := limited.Accept()
	require.NoError(t, err)
	defer first.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := limited.Accept()
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(waiting) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, limited.Close())

	select {
	case err := <-errCh:
		require.True(t, errors.Is(err, net.ErrClosed))
	case <-time.After(5 * time.Second):
		t.Fatal("Accept did not return after Close")
	}
}

func TestLimitedConnKeepAlive(t *testing.T) {
	conn := &limitedConn{release: func() {}}

	require.ErrorIs(t, conn.SetKeepAlive(true), errKeepAliveNotSupported)
	require.ErrorIs(t, conn.SetKeepAlivePeriod(time.Second), errKeepAliveNotSupported)
}
