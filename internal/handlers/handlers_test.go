package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"gitlab.com/neoarena/devserver/internal/config"
	"gitlab.com/neoarena/devserver/internal/testhelpers"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "OK")
})

func TestCorsHandler(t *testing.T) {
	tests := map[string]struct {
		disabled       bool
		expectedOrigin string
	}{
		"enabled": {
			disabled:       false,
			expectedOrigin: "*",
		},
		"disabled": {
			disabled:       true,
			expectedOrigin: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{General: config.General{DisableCrossOriginRequests: tt.disabled}}

			ww := httptest.NewRecorder()
			rr := httptest.NewRequest(http.MethodGet, "/quiz.html", nil)
			rr.Header.Set("Origin", "https://wallet.example.com")

			CorsHandler(cfg, okHandler).ServeHTTP(ww, rr)

			res := ww.Result()
			testhelpers.Close(t, res.Body)

			require.Equal(t, http.StatusOK, res.StatusCode)
			require.Equal(t, tt.expectedOrigin, res.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCorsHandlerRejectsPreflightForWrites(t *testing.T) {
	cfg := &config.Config{}

	ww := httptest.NewRecorder()
	rr := httptest.NewRequest(http.MethodOptions, "/quiz.html", nil)
	rr.Header.Set("Origin", "https://wallet.example.com")
	rr.Header.Set("Access-Control-Request-Method", http.MethodPost)

	CorsHandler(cfg, okHandler).ServeHTTP(ww, rr)

	require.Empty(t, ww.Header().Get("Access-Control-Allow-Methods"))
	require.Empty(t, ww.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryHandler(t *testing.T) {
	hook := test.NewGlobal()

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	ww := httptest.NewRecorder()
	rr := httptest.NewRequest(http.MethodGet, "/quiz.html", nil)

	require.NotPanics(t, func() {
		RecoveryHandler(panicking).ServeHTTP(ww, rr)
	})

	require.Equal(t, http.StatusInternalServerError, ww.Code)
	testhelpers.AssertLogContains(t, "recovered from panic", hook.AllEntries())
}
