package buscontroller

// A FaultInjector perturbs controller behavior so that the driver's
// retry path can be exercised deterministically.
type FaultInjector interface {
	// CorruptRead may flip bytes in the frame about to be returned by
	// a frame read. It reports whether it did. The reply register
	// still carries the checksum of the uncorrupted content, so the
	// driver side detects the mismatch.
	CorruptRead(frameIndex uint16, frame []byte) bool

	// DropWrite reports whether a frame write should be rejected with
	// a non-zero return code before touching the store.
	DropWrite(frameIndex uint16) bool
}
