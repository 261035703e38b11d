package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsCanBeScraped(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		ServedFileSize,
		NotFoundTotal,
		BrowserOpenFailures,
		LimitListenerMaxConns,
	)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	before := testutil.ToFloat64(NotFoundTotal)
	NotFoundTotal.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(NotFoundTotal))

	ServedFileSize.Observe(2048)
	LimitListenerMaxConns.Set(10)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, metricFamilies, 4)

	res, err := http.Get(testServer.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Contains(t, string(body), "devserver_not_found_total")
	require.Contains(t, string(body), "devserver_served_file_size_bytes_count")
	require.Contains(t, string(body), "devserver_limit_listener_max_conns 10")
	require.Contains(t, string(body), "devserver_browser_open_failures_total 0")
}
