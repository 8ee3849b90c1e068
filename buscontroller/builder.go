package buscontroller

// Builder builds bus controllers.
type Builder struct {
	frameCapacity int
	faults        FaultInjector
}

// MakeBuilder returns a new Builder with a 65536-frame device, the
// largest a 16-bit frame index can address.
func MakeBuilder() Builder {
	return Builder{
		frameCapacity: 65536,
	}
}

// WithFrameCapacity sets the total number of frames on the device.
func (b Builder) WithFrameCapacity(frameCapacity int) Builder {
	b.frameCapacity = frameCapacity
	return b
}

// WithFaultInjector installs a fault injector that can corrupt reads
// and reject writes.
func (b Builder) WithFaultInjector(faults FaultInjector) Builder {
	b.faults = faults
	return b
}

// Build builds a new Comp.
func (b Builder) Build(name string) *Comp {
	if b.frameCapacity <= 0 || b.frameCapacity > 65536 {
		panic("frame capacity must be in (0, 65536]")
	}

	return &Comp{
		name:    name,
		storage: newFrameStore(b.frameCapacity),
		faults:  b.faults,
	}
}
