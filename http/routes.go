package http

import "net/http"

// NewRouter wires the PV endpoints behind the rate limiter.
func NewRouter(handler *PVHandler, limiter *RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"/pv/calculate": handler.CalculatePV,
		"/pv/scan":      handler.ScanPV,
		"/npv/scan":     handler.ScanNPV,
		"/scans":        handler.History,
	}
	for path, fn := range routes {
		mux.Handle(path, RateLimitMiddleware(limiter, fn))
	}

	return mux
}
