package request

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/GriffinCanCode/volley/form"
	"github.com/GriffinCanCode/volley/internal/id"
	"go.uber.org/zap"
)

// Version is reported in the default User-Agent.
const Version = "1.0.0"

// DefaultTimeout applies when neither the Config nor the Builder sets one.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent identifies the library, its version and the platform.
var DefaultUserAgent = fmt.Sprintf("volley/%s (%s; %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

// Observer is notified of operation lifecycle events.
type Observer interface {
	OperationStarted(method Method)
	OperationFinished(method Method, state State, elapsed time.Duration, status int)
}

// Config holds everything a Client needs. There is no process-wide state:
// two Clients with different Configs never affect each other.
type Config struct {
	// BaseURL prefixes relative targets; see JoinURL.
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Debug enables debug logging of every request stage.
	Debug bool

	Logger    *zap.Logger
	Transport Transport
	Observer  Observer
	// Encoder serializes parameters; the zero value means form.DefaultEncoder.
	Encoder  form.Encoder
	Boundary string
	NewID    func() string
}

// DefaultConfig returns a Config without a Transport.
func DefaultConfig() Config {
	return Config{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Logger:    zap.NewNop(),
		Encoder:   form.DefaultEncoder(),
		Boundary:  form.DefaultBoundary,
		NewID:     id.NewOperationID,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	if c.Encoder == (form.Encoder{}) {
		c.Encoder = def.Encoder
	}
	if c.Boundary == "" {
		c.Boundary = def.Boundary
	}
	if c.NewID == nil {
		c.NewID = def.NewID
	}
	return c
}

type nopObserver struct{}

func (nopObserver) OperationStarted(Method)                             {}
func (nopObserver) OperationFinished(Method, State, time.Duration, int) {}

// JoinURL joins base and path with exactly one '/' between them. An empty
// base returns path unchanged.
func JoinURL(base, path string) string {
	if base == "" {
		return path
	}
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// isAbsolute reports whether target carries its own scheme.
func isAbsolute(target string) bool {
	i := strings.Index(target, "://")
	if i <= 0 {
		return false
	}
	for _, c := range target[:i] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}
