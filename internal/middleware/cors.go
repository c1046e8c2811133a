package middleware

import (
	"github.com/go-chi/cors"
)

// CORS returns permissive cors.Options for the mobile client. Preflight
// requests pass through so the chat handler answers them itself with an
// empty 200. If "*" is present, AllowCredentials is false (browsers reject
// credentials with a wildcard origin).
func CORS(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:     allowedOrigins,
		AllowedMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Client-Info", "Apikey", "X-Request-ID"},
		ExposedHeaders:     []string{"X-Request-ID", "Retry-After"},
		AllowCredentials:   allowCreds,
		OptionsPassthrough: true,
		MaxAge:             300,
	}
}
