package driver

import "errors"

var (
	// ErrNotPoweredOn is returned by any operation attempted while the
	// device is powered off.
	ErrNotPoweredOn = errors.New("device is not powered on")

	// ErrAlreadyPoweredOn is returned by PowerOn when the device is
	// already on.
	ErrAlreadyPoweredOn = errors.New("device is already powered on")

	// ErrInvalidHandle is returned for a handle that is unknown,
	// closed, or stale.
	ErrInvalidHandle = errors.New("invalid or closed file handle")

	// ErrOutOfFrames is returned when allocating frames for a write
	// would exceed the device's frame capacity.
	ErrOutOfFrames = errors.New("device frame capacity exhausted")

	// ErrSeekOutOfRange is returned for a seek beyond the end of the
	// file.
	ErrSeekOutOfRange = errors.New("seek offset beyond end of file")
)
