// Package config loads volley's process configuration.
//
// Values are layered, lowest precedence first: Default, an optional YAML
// or TOML file, then environment variables. The result is turned into a
// request.Config, transport.Options and logging.Config by the accessors on
// Config, which is the only path by which process-wide settings reach the
// request engine.
//
// Example Usage:
//
//	cfg, err := config.LoadFile("volley.yaml")
//	if err != nil {
//		return err
//	}
//	client := request.NewClient(cfg.ClientConfig(logger, transport.New(cfg.TransportOptions(logger)), nil))
//
// Environment Variables:
//   - VOLLEY_BASE_URL, VOLLEY_TIMEOUT, VOLLEY_USER_AGENT, VOLLEY_DEBUG
//   - VOLLEY_RATE_LIMIT_RPS, VOLLEY_RATE_LIMIT_BURST, VOLLEY_MAX_REDIRECTS
//   - VOLLEY_LOG_LEVEL, VOLLEY_LOG_DEV
//   - VOLLEY_METRICS_ENABLED, VOLLEY_METRICS_NAMESPACE
package config
