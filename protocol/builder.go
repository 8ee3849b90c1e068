package protocol

import "github.com/ChloapSoap/blocksim/bus"

// Builder builds protocol engines.
type Builder struct {
	transport  bus.Transport
	maxRetries int
}

// MakeBuilder returns a new Builder. The retry count defaults to
// unbounded.
func MakeBuilder() Builder {
	return Builder{}
}

// WithTransport sets the bus transport the engine exchanges registers
// with.
func (b Builder) WithTransport(t bus.Transport) Builder {
	b.transport = t
	return b
}

// WithMaxRetries bounds the number of failed attempts the engine
// re-issues after the first one. Zero keeps the retry loop unbounded.
func (b Builder) WithMaxRetries(maxRetries int) Builder {
	b.maxRetries = maxRetries
	return b
}

// Build builds a new Engine.
func (b Builder) Build(name string) *Engine {
	if b.transport == nil {
		panic("protocol engine requires a bus transport")
	}

	return &Engine{
		name:       name,
		transport:  b.transport,
		maxRetries: b.maxRetries,
	}
}
