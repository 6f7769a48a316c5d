package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tradedeck/tradedeck/internal/ratelimit"
	"github.com/tradedeck/tradedeck/internal/utils"
)

// RateLimit guards routes with a fixed-window per-IP admission check. Store
// errors fail open: a broken limiter backend must not take trading down, so
// rejection requires a positive over-limit verdict.
func RateLimit(store ratelimit.Store, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r)

			res, err := store.Allow(r.Context(), ip)
			if err != nil {
				log.WithError(err).WithField("ip", ip).
					Warn("Rate limit store error, admitting request")
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				log.WithFields(logrus.Fields{
					"ip":   ip,
					"path": r.URL.Path,
				}).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				}
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "too many requests, slow down",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
