package web

import (
	"context"
	"net"
	"net/http"
)

// runContext returns the context a workflow run executes under. Runs are not
// cancellable by the user, so a dropped connection must not abort one; the
// request's values (request id) are kept for logging.
func runContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// clientIP strips the port from a RemoteAddr. RemoteAddr is already the
// client address when the request came through a trusted proxy.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
