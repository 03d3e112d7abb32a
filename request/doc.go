// Package request builds and executes HTTP operations.
//
// A Client holds explicit configuration (base URL, default timeout, user
// agent, logger, Transport). Client.New returns a Builder, a mutable
// single-owner description of one request. Each Fire variant snapshots the
// builder into an immutable Descriptor, realizes the wire request (query
// string, body, computed headers) and submits it to the Transport.
//
// Every operation ends with exactly one terminal callback: success, error
// or cancel. Callbacks of one Client run on a single serial delivery
// goroutine. In Sync dispatch mode Fire blocks until the terminal callback
// has returned, so Fire in Sync mode must never be called from inside a
// callback.
//
// Responses are decoded through a chain: bytes, then text, then JSON. A
// JSON request therefore also yields the text and bytes of the same
// response. Decoding never fails the operation; text that is not valid
// UTF-8 degrades to "" and malformed JSON degrades to an absent value.
package request
