package main

import (
	"context"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/GriffinCanCode/volley/form"
	"github.com/GriffinCanCode/volley/internal/config"
	"github.com/GriffinCanCode/volley/internal/logging"
	"github.com/GriffinCanCode/volley/internal/monitoring"
	"github.com/GriffinCanCode/volley/jsonval"
	"github.com/GriffinCanCode/volley/request"
	"github.com/GriffinCanCode/volley/transport"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	as         string
	data       string
	jsonBody   string
	user       string
	agent      string
	timeout    time.Duration
	pins       []string
	params     []string
	headers    []string
	files      []string
	metrics    bool
	debug      bool
	logLevel   string
}

func main() {
	opts, args := parseFlags()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: volley [flags] METHOD URL")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(opts, request.Method(strings.ToUpper(args[0])), args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "volley:", err)
		os.Exit(1)
	}
}

func parseFlags() (*options, []string) {
	opts := &options{}
	flag.StringVar(&opts.configPath, "config", "", "YAML or TOML config file")
	flag.StringVar(&opts.as, "as", "string", "response representation: data, string or json")
	flag.StringVar(&opts.data, "data", "", "raw text body")
	flag.StringVar(&opts.jsonBody, "json", "", "raw JSON body")
	flag.StringVar(&opts.user, "user", "", "basic auth credentials as user:password")
	flag.StringVar(&opts.agent, "agent", "", "User-Agent override")
	flag.DurationVar(&opts.timeout, "timeout", 0, "request timeout")
	flag.BoolVar(&opts.metrics, "metrics", false, "print an operation summary on exit")
	flag.BoolVar(&opts.debug, "debug", false, "log every request stage")
	flag.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	flag.Func("param", "parameter as key=value (repeatable)", appendTo(&opts.params))
	flag.Func("header", "header as Key: Value (repeatable)", appendTo(&opts.headers))
	flag.Func("file", "upload as name=path (repeatable)", appendTo(&opts.files))
	flag.Func("pin", "pinned certificate file, PEM or DER (repeatable)", appendTo(&opts.pins))
	flag.Parse()
	return opts, flag.Args()
}

func appendTo(list *[]string) func(string) error {
	return func(v string) error {
		*list = append(*list, v)
		return nil
	}
}

func run(opts *options, method request.Method, target string) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.debug {
		cfg.Client.Debug = true
	}

	log, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Close() }()
	if opts.logLevel != "" {
		if err := log.SetLevel(opts.logLevel); err != nil {
			return fmt.Errorf("invalid -log-level: %w", err)
		}
	}

	tr := transport.New(cfg.TransportOptions(log.Component("transport")))
	defer tr.Close()

	var observer request.Observer
	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled || opts.metrics {
		metrics = monitoring.New(prometheus.NewRegistry(), cfg.Metrics.Namespace)
		observer = metrics
	}

	client := request.NewClient(cfg.ClientConfig(log.Component("request"), tr, observer))
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBuilder(client, opts, method, target)
	if err != nil {
		return err
	}

	var failure error
	b.SetContext(ctx).
		OnError(func(resp *request.Response, err error) { failure = err }).
		OnCancel(func() { failure = context.Canceled })

	op, err := b.FireFor(responseType(opts.as), func(v any, resp *request.Response, t request.ResponseType) {
		printResult(v, resp, t)
	})
	if err != nil {
		return err
	}

	if _, err := op.Wait(ctx); err != nil {
		log.Info("Cancelling request", zap.String("operation", op.ID()))
		op.Cancel()
		<-op.Done()
	}

	if metrics != nil {
		s := metrics.Snapshot()
		fmt.Fprintf(os.Stderr, "operations: started=%d completed=%d failed=%d cancelled=%d avg=%s\n",
			s.Started, s.Completed, s.Failed, s.Cancelled, s.AverageDuration())
	}
	return failure
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func newBuilder(client *request.Client, opts *options, method request.Method, target string) (*request.Builder, error) {
	b := client.New(method, target)

	for _, p := range opts.params {
		key, value, _ := strings.Cut(p, "=")
		b.AddParam(key, form.String(value))
	}
	for _, h := range opts.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q", h)
		}
		b.AddHeader(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for _, f := range opts.files {
		name, path, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid file %q", f)
		}
		b.AddFile(form.FileFromPath(name, path, ""))
	}

	switch {
	case opts.jsonBody != "":
		v, err := jsonval.ParseErr([]byte(opts.jsonBody))
		if err != nil {
			return nil, fmt.Errorf("invalid -json body: %w", err)
		}
		b.SetJSONBody(v)
	case opts.data != "":
		b.SetRawBody([]byte(opts.data), false)
	}

	if opts.user != "" {
		user, password, _ := strings.Cut(opts.user, ":")
		b.SetBasicAuth(user, password)
	}
	if opts.agent != "" {
		b.SetUserAgent(opts.agent)
	}
	if opts.timeout > 0 {
		b.SetTimeout(opts.timeout)
	}

	if len(opts.pins) > 0 {
		ders, err := readCertificates(opts.pins)
		if err != nil {
			return nil, err
		}
		b.SetPinnedCertificates(ders, func() {
			fmt.Fprintln(os.Stderr, "volley: server certificate does not match any pinned certificate")
		})
	}
	return b, nil
}

// readCertificates loads every path as DER, unwrapping PEM blocks.
func readCertificates(paths []string) ([][]byte, error) {
	var ders [][]byte
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read certificate: %w", err)
		}
		found := false
		for {
			var block *pem.Block
			block, data = pem.Decode(data)
			if block == nil {
				break
			}
			if block.Type == "CERTIFICATE" {
				ders = append(ders, block.Bytes)
				found = true
			}
		}
		if !found {
			if len(data) == 0 {
				return nil, errors.New("no certificate in " + path)
			}
			ders = append(ders, data)
		}
	}
	return ders, nil
}

func responseType(as string) request.ResponseType {
	switch strings.ToLower(as) {
	case "data", "bytes":
		return request.Data
	case "json":
		return request.JSON
	default:
		return request.String
	}
}

func printResult(v any, resp *request.Response, t request.ResponseType) {
	if resp != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", resp.Status, resp.URL)
	}
	switch t {
	case request.Data:
		_, _ = os.Stdout.Write(v.([]byte))
	case request.JSON:
		fmt.Println(v.(jsonval.Value).Raw())
	default:
		fmt.Println(v.(string))
	}
}
