// Package main is the volley command line client.
//
// It fires a single HTTP request through the volley request engine and
// writes the response body to stdout. Logs go to stderr.
//
// Configuration:
//   - Defaults, then an optional -config file (YAML or TOML)
//   - Environment variables (VOLLEY_*)
//   - CLI flags override both
//
// Usage:
//
//	# JSON GET with query parameters
//	./volley -as json -param q=go -param page=2 GET https://api.example.com/search
//
//	# Form POST with a file upload and basic auth
//	./volley -param title=notes -file doc=./notes.txt -user me:secret POST /upload
//
//	# Raw JSON body, pinned certificate, metrics summary on exit
//	./volley -json '{"a":1}' -pin ./server.pem -metrics PUT https://api.example.com/items/1
//
// Signals:
//   - SIGINT, SIGTERM: cancel the in-flight request
package main
