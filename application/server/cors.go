package server

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are the development origins of the web
// dashboard.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}

// CORSConfig lists the origins allowed to make cross-origin requests.
// The origin "*" allows every origin.
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// allows is used by the websocket handshake, which the CORS middleware
// does not cover.
func (c *CORSConfig) allows(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// handler lets allowed origins call the API with credentials and any
// header, and answers their preflight requests.
func (c *CORSConfig) handler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
