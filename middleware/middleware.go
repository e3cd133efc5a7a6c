// Package middleware holds the HTTP middleware chain shared by every route.
package middleware

import (
	"net"
	"net/http"
)

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// remoteIP strips the port from a RemoteAddr
func remoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
