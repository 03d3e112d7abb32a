// Package form turns request parameters and file attachments into wire
// bodies and the headers that describe them.
//
// This package is organized into:
//   - param: the closed parameter variant (string, int, float, bool, nil)
//   - file: multipart attachments backed by a path or an in-memory buffer
//   - query: percent-escaping, query strings and form-urlencoded bodies
//   - multipart: multipart/form-data bodies with a fixed boundary
//   - body: choosing the body for a request and deriving Content-Type and
//     Content-Length
//
// Query strings are always built from keys sorted lexicographically, so the
// same parameters produce the same bytes on every run.
package form
