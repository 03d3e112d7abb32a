// Package transport is the default request.Transport. It sends requests
// with resty over a pooled net/http transport, enforces certificate
// pinning during the TLS handshake, reports upload progress and decodes
// compressed response bodies.
package transport
