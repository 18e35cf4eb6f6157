package handler

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// newBackendProxy forwards /__api/* to the backend origin with the prefix
// already stripped, so OAuth and session cookies stay first-party.
func newBackendProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("backend proxy failed", "method", r.Method, "path", r.URL.Path, "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}
