package transport

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/GriffinCanCode/volley/request"
)

func tlsConfig(base *tls.Config, roots *x509.CertPool) *tls.Config {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if base != nil {
		cfg = base.Clone()
	}
	if roots != nil {
		cfg.RootCAs = roots
	}
	return cfg
}

// pinnedTransport returns a single-use transport whose handshakes are
// judged by challenge. Keep-alives are off so every request handshakes.
func (t *Transport) pinnedTransport(challenge func([]byte) request.Disposition, rejected *atomic.Bool) *http.Transport {
	tr := t.pooled.Clone()
	tr.DisableKeepAlives = true

	cfg := tlsConfig(tr.TLSClientConfig, t.opts.RootCAs)
	// Chain verification moves into VerifyConnection.
	cfg.InsecureSkipVerify = true
	roots := cfg.RootCAs
	cfg.VerifyConnection = func(cs tls.ConnectionState) error {
		err := verifyConnection(cs, challenge, roots)
		if errors.Is(err, request.ErrPinMismatch) {
			rejected.Store(true)
		}
		return err
	}
	tr.TLSClientConfig = cfg
	return tr
}

func verifyConnection(cs tls.ConnectionState, challenge func([]byte) request.Disposition, roots *x509.CertPool) error {
	if len(cs.PeerCertificates) == 0 {
		return fmt.Errorf("%w: server sent no certificate", request.ErrPinMismatch)
	}
	leaf := cs.PeerCertificates[0]

	switch challenge(leaf.Raw) {
	case request.Accept:
		return nil
	case request.Reject:
		return request.ErrPinMismatch
	}

	opts := x509.VerifyOptions{
		Roots:         roots,
		DNSName:       cs.ServerName,
		Intermediates: x509.NewCertPool(),
	}
	for _, cert := range cs.PeerCertificates[1:] {
		opts.Intermediates.AddCert(cert)
	}
	_, err := leaf.Verify(opts)
	return err
}
