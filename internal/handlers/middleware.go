package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"starcoach/internal/security"
)

// Logging logs every request with method, path, status, and duration
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequireAuth validates the bearer token and rejects unauthenticated requests
func RequireAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondWithError(w, http.StatusUnauthorized, "Missing bearer token", "", nil)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if _, err := security.VerifyToken(secret, token); err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid token", "Token verification failed", err)
			return
		}

		next(w, r)
	}
}

// RateLimit rejects clients that exceed the configured request rate
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := security.GetClientIP(r)
		if !limiter.Allow(clientIP) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}
