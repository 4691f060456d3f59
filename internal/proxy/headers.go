package proxy

import "net/http"

// rateLimitHeaders let the dashboard tell a throttled user apart from a
// broken token.
var rateLimitHeaders = []string{
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
	"X-RateLimit-Used",
	"Retry-After",
}

func copyRateLimitHeaders(dst, src http.Header) {
	for _, name := range rateLimitHeaders {
		if value := src.Get(name); value != "" {
			dst.Set(name, value)
		}
	}
}
