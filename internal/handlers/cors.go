package handlers

import (
	"net/http"

	"github.com/rs/cors"

	"gitlab.com/neoarena/devserver/internal/config"
)

var corsHandler = cors.New(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodHead},
})

// CorsHandler allows cross-origin GET and HEAD requests unless they are
// disabled in config
func CorsHandler(config *config.Config, handler http.Handler) http.Handler {
	if !config.General.DisableCrossOriginRequests {
		handler = corsHandler.Handler(handler)
	}
	return handler
}
