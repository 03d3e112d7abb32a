package request

import (
	"fmt"
	"net/http"
)

// Method is an HTTP request method.
type Method string

const (
	GET     Method = http.MethodGet
	POST    Method = http.MethodPost
	PUT     Method = http.MethodPut
	DELETE  Method = http.MethodDelete
	HEAD    Method = http.MethodHead
	OPTIONS Method = http.MethodOptions
	PATCH   Method = http.MethodPatch
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, DELETE, HEAD, OPTIONS, PATCH:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }

// Dispatch selects how Fire waits for the outcome.
type Dispatch int

const (
	// Async returns from Fire immediately.
	Async Dispatch = iota
	// Sync blocks Fire until the terminal callback has run.
	Sync
)

func (d Dispatch) String() string {
	if d == Sync {
		return "sync"
	}
	return "async"
}

// CachePolicy is passed through to the Transport.
type CachePolicy int

const (
	ReloadIgnoringCache CachePolicy = iota
	UseProtocolCachePolicy
	ReturnCacheDataElseLoad
)

func (p CachePolicy) String() string {
	switch p {
	case UseProtocolCachePolicy:
		return "protocol"
	case ReturnCacheDataElseLoad:
		return "cache-else-load"
	default:
		return "reload"
	}
}

// ResponseType selects the representation handed to the success callback.
type ResponseType int

const (
	Data ResponseType = iota
	String
	JSON
)

func (t ResponseType) String() string {
	switch t {
	case String:
		return "string"
	case JSON:
		return "json"
	default:
		return "data"
	}
}

// State is the lifecycle position of an Operation.
type State int32

const (
	StateBuilt State = iota
	StateDispatched
	StateCompleted
	StateFailed
	StateCancelled
)

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateDispatched:
		return "dispatched"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
