package driver

import (
	"github.com/ChloapSoap/blocksim/bus"
	"github.com/ChloapSoap/blocksim/framecache"
	"github.com/ChloapSoap/blocksim/protocol"
)

// Builder builds drivers.
type Builder struct {
	transport     bus.Transport
	engine        *protocol.Engine
	cacheCapacity int
	frameCapacity int
	maxRetries    int
}

// MakeBuilder returns a new Builder with a 64-frame cache, a
// 65536-frame device, and unbounded bus retries.
func MakeBuilder() Builder {
	return Builder{
		cacheCapacity: 64,
		frameCapacity: 65536,
	}
}

// WithTransport sets the bus transport. A protocol engine is built on
// top of it unless one is supplied with WithEngine.
func (b Builder) WithTransport(t bus.Transport) Builder {
	b.transport = t
	return b
}

// WithEngine sets the protocol engine directly, taking precedence over
// WithTransport and WithMaxRetries.
func (b Builder) WithEngine(e *protocol.Engine) Builder {
	b.engine = e
	return b
}

// WithCacheCapacity sets the maximum number of frames held by the
// cache. The capacity is fixed before first use.
func (b Builder) WithCacheCapacity(capacity int) Builder {
	b.cacheCapacity = capacity
	return b
}

// WithFrameCapacity sets the total number of frames on the device,
// bounding frame allocation.
func (b Builder) WithFrameCapacity(frameCapacity int) Builder {
	b.frameCapacity = frameCapacity
	return b
}

// WithMaxRetries bounds the protocol engine's retry loop. Zero keeps
// it unbounded.
func (b Builder) WithMaxRetries(maxRetries int) Builder {
	b.maxRetries = maxRetries
	return b
}

// Build builds a new Driver, powered off.
func (b Builder) Build(name string) *Driver {
	engine := b.engine
	if engine == nil {
		engine = protocol.MakeBuilder().
			WithTransport(b.transport).
			WithMaxRetries(b.maxRetries).
			Build(name + ".ProtocolEngine")
	}

	if b.frameCapacity <= 0 || b.frameCapacity > 65536 {
		panic("frame capacity must be in (0, 65536]")
	}

	return &Driver{
		name:          name,
		engine:        engine,
		cache:         framecache.NewCache(b.cacheCapacity),
		frameCapacity: b.frameCapacity,
	}
}
