package request

import (
	"bytes"
	"sync"
)

// Pinning validates server certificates by exact byte comparison against a
// set of pinned DER certificates.
type Pinning struct {
	pins       [][]byte
	onMismatch func()
	deliver    func(func())
	once       sync.Once
}

// NewPinning creates a validator. onMismatch, when not nil, runs at most
// once, through deliver when deliver is not nil.
func NewPinning(pins [][]byte, onMismatch func(), deliver func(func())) *Pinning {
	return &Pinning{
		pins:       clonePins(pins),
		onMismatch: onMismatch,
		deliver:    deliver,
	}
}

// Evaluate decides whether the leaf certificate is trusted.
func (p *Pinning) Evaluate(leafDER []byte) Disposition {
	if len(p.pins) == 0 {
		return UseDefault
	}
	for _, pin := range p.pins {
		if bytes.Equal(pin, leafDER) {
			return Accept
		}
	}
	p.mismatch()
	return Reject
}

// Enabled reports whether any certificate is pinned.
func (p *Pinning) Enabled() bool { return len(p.pins) > 0 }

func (p *Pinning) mismatch() {
	if p.onMismatch == nil {
		return
	}
	p.once.Do(func() {
		if p.deliver != nil {
			p.deliver(p.onMismatch)
			return
		}
		p.onMismatch()
	})
}

func clonePins(pins [][]byte) [][]byte {
	if len(pins) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(pins))
	for _, pin := range pins {
		out = append(out, bytes.Clone(pin))
	}
	return out
}
