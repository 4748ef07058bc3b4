/*
Package api
File: middleware.go
Description:
    HTTP middleware: CORS for cross-origin bot clients, panic recovery so an
    unexpected fault in a handler becomes a logged 500 instead of a crashed
    process, and a method guard for the mutating endpoints.
*/

package api

import (
	"log"
	"net/http"
)

// CORSMiddleware lets browser-based clients talk to the server across domains.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecoverMiddleware catches handler panics at the boundary.
// The user gets a generic retry-later message; the panic goes to the log.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("PANIC in %s %s: %v", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "",
					"an unexpected error occurred, please try again later")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// PostOnly rejects any method other than POST before the handler runs.
func PostOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
			return
		}
		h(w, r)
	}
}
