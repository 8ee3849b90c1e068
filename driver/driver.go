// Package driver implements the file abstraction on top of the block
// device bus: a file table, per-handle cursors, monotonic frame
// allocation, and reads and writes that go through the frame cache
// before touching the bus.
package driver

import (
	"github.com/ChloapSoap/blocksim/bus"
	"github.com/ChloapSoap/blocksim/framecache"
	"github.com/ChloapSoap/blocksim/protocol"
)

// The driver exercises a single store on the device.
const storeID uint8 = 0

// A Driver owns all the state of one simulated block device: power
// state, file table, handle arena, free-frame counter, frame cache,
// and the protocol engine that talks to the bus. A Driver is not safe
// for concurrent use.
type Driver struct {
	name string

	engine *protocol.Engine
	cache  framecache.Cache

	powered       bool
	table         fileTable
	freeFrame     int
	frameCapacity int
}

// Status is a point-in-time snapshot of driver state.
type Status struct {
	Powered       bool `json:"powered"`
	Files         int  `json:"files"`
	OpenHandles   int  `json:"open_handles"`
	FreeFrame     int  `json:"free_frame"`
	FrameCapacity int  `json:"frame_capacity"`
	CacheLen      int  `json:"cache_len"`
	CacheCapacity int  `json:"cache_capacity"`
}

// Name returns the name of the driver.
func (d *Driver) Name() string {
	return d.name
}

// Engine returns the protocol engine, mainly so that tracers can hook
// into bus traffic.
func (d *Driver) Engine() *protocol.Engine {
	return d.engine
}

// Status reports the current driver state.
func (d *Driver) Status() Status {
	return Status{
		Powered:       d.powered,
		Files:         len(d.table.files),
		OpenHandles:   d.table.openHandleCount(),
		FreeFrame:     d.freeFrame,
		FrameCapacity: d.frameCapacity,
		CacheLen:      d.cache.Len(),
		CacheCapacity: d.cache.Capacity(),
	}
}

// PowerOn starts the device: it runs the device-init and zero-all
// opcodes and resets the file table, the free-frame counter, and the
// cache. Nothing from a previous power cycle survives.
func (d *Driver) PowerOn() error {
	if d.powered {
		return ErrAlreadyPoweredOn
	}

	if err := d.engine.ExecuteOpcode(nil, bus.OpDeviceInit, 0); err != nil {
		return err
	}

	d.powered = true

	if err := d.engine.ExecuteOpcode(nil, bus.OpZeroAll, 0); err != nil {
		d.powered = false
		return err
	}

	d.table.reset()
	d.freeFrame = 0
	d.cache.Reset()

	return nil
}

// PowerOff shuts the device down: it runs the power-off opcode, closes
// every handle, and releases the file table and the cache.
func (d *Driver) PowerOff() error {
	if !d.powered {
		return ErrNotPoweredOn
	}

	if err := d.engine.ExecuteOpcode(nil, bus.OpPowerOff, 0); err != nil {
		return err
	}

	d.table.closeAll()
	d.table.reset()
	d.freeFrame = 0
	d.cache.Reset()
	d.powered = false

	return nil
}

// Open resolves a path to a file, creating an empty one when no name
// matches, and returns a fresh handle with its cursor at zero.
func (d *Driver) Open(path string) (Handle, error) {
	if !d.powered {
		return Handle{}, ErrNotPoweredOn
	}

	fileIndex := d.table.lookupOrCreate(path)

	return d.table.openHandle(fileIndex), nil
}

// Close closes a handle. Closing a handle that is already closed is
// not an error.
func (d *Driver) Close(h Handle) error {
	if !d.powered {
		return ErrNotPoweredOn
	}

	if h.slot < 0 || h.slot >= len(d.table.handles) {
		return ErrInvalidHandle
	}

	s := &d.table.handles[h.slot]
	if !s.open || s.generation != h.generation {
		return nil
	}

	d.table.closeSlot(s)

	return nil
}

// Read copies bytes from the handle's cursor position into buf,
// clipped to the remaining file size and to the frame-backed range,
// and advances the cursor. It returns the number of bytes read.
func (d *Driver) Read(h Handle, buf []byte) (int, error) {
	if !d.powered {
		return 0, ErrNotPoweredOn
	}

	s, err := d.table.get(h)
	if err != nil {
		return 0, err
	}
	file := d.table.files[s.fileIndex]

	count := len(buf)
	if file.size-s.cursor < count {
		count = file.size - s.cursor
	}

	// The size can exceed the frame-backed range after an overwrite, so
	// reads also stop at the last allocated frame.
	if file.capacityBytes()-s.cursor < count {
		count = file.capacityBytes() - s.cursor
	}

	if count < 0 {
		count = 0
	}

	frame := make([]byte, bus.FrameSize)
	remaining := count
	bufOffset := 0

	for remaining > 0 {
		frameOffset := s.cursor % bus.FrameSize
		frameIndex := file.frames[s.cursor/bus.FrameSize]

		if err := d.fetchFrame(frameIndex, frame); err != nil {
			return bufOffset, err
		}

		chunk := bus.FrameSize - frameOffset
		if remaining < chunk {
			chunk = remaining
		}

		copy(buf[bufOffset:bufOffset+chunk],
			frame[frameOffset:frameOffset+chunk])

		bufOffset += chunk
		s.cursor += chunk
		remaining -= chunk
	}

	return count, nil
}

// Write copies buf into the file at the handle's cursor position,
// allocating frames as needed, and advances the cursor. The file size
// grows by len(buf) whether or not the write extended the file, so
// size is an upper bound on the bytes ever written. The whole
// operation fails without touching the file when not enough frames
// remain on the device.
func (d *Driver) Write(h Handle, buf []byte) (int, error) {
	if !d.powered {
		return 0, ErrNotPoweredOn
	}

	s, err := d.table.get(h)
	if err != nil {
		return 0, err
	}
	file := d.table.files[s.fileIndex]

	count := len(buf)
	if err := d.allocateFrames(file, s.cursor, count); err != nil {
		return 0, err
	}

	frame := make([]byte, bus.FrameSize)
	remaining := count
	bufOffset := 0

	for remaining > 0 {
		frameIndex := file.frames[s.cursor/bus.FrameSize]
		frameOffset := s.cursor % bus.FrameSize

		if err := d.fetchFrame(frameIndex, frame); err != nil {
			return bufOffset, err
		}

		chunk := bus.FrameSize - frameOffset
		if remaining < chunk {
			chunk = remaining
		}

		copy(frame[frameOffset:frameOffset+chunk],
			buf[bufOffset:bufOffset+chunk])

		err := d.engine.ExecuteOpcode(frame, bus.OpFrameWrite, frameIndex)
		if err != nil {
			return bufOffset, err
		}
		d.cache.Upsert(storeID, frameIndex, frame)

		s.cursor += chunk
		bufOffset += chunk
		remaining -= chunk
	}

	file.size += count

	return count, nil
}

// Seek moves the handle's cursor. The offset must stay within
// [0, file size].
func (d *Driver) Seek(h Handle, offset int) error {
	if !d.powered {
		return ErrNotPoweredOn
	}

	s, err := d.table.get(h)
	if err != nil {
		return err
	}

	file := d.table.files[s.fileIndex]
	if offset < 0 || offset > file.size {
		return ErrSeekOutOfRange
	}

	s.cursor = offset

	return nil
}

// fetchFrame loads one frame's content, consulting the cache first and
// falling back to a bus read that then populates the cache.
func (d *Driver) fetchFrame(frameIndex uint16, frame []byte) error {
	if content, ok := d.cache.Lookup(storeID, frameIndex); ok {
		copy(frame, content)
		return nil
	}

	err := d.engine.ExecuteOpcode(frame, bus.OpFrameRead, frameIndex)
	if err != nil {
		return err
	}

	d.cache.Upsert(storeID, frameIndex, frame)

	return nil
}

// allocateFrames extends the file's frame list until it backs
// cursor+count bytes. Frame indices come from a monotonic counter and
// are never reused while the device stays powered on. On failure
// neither the file nor the counter changes.
func (d *Driver) allocateFrames(file *fileRecord, cursor, count int) error {
	needed := cursor + count
	frames := file.frames
	next := d.freeFrame

	for len(frames)*bus.FrameSize < needed {
		if next >= d.frameCapacity {
			return ErrOutOfFrames
		}

		frames = append(frames, uint16(next))
		next++
	}

	file.frames = frames
	d.freeFrame = next

	return nil
}
