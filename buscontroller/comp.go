// Package buscontroller provides the device side of the bus: a
// simulated block storage controller that services the opcode set one
// register exchange at a time.
package buscontroller

import (
	"github.com/ChloapSoap/blocksim/bus"
	"github.com/ChloapSoap/blocksim/hooking"
)

// HookPosOperation marks the completion of one serviced bus operation.
// The hook item is an Operation.
var HookPosOperation = &hooking.HookPos{Name: "ControllerOperation"}

// An Operation describes one bus request as seen by the controller.
type Operation struct {
	Location   string
	Op         bus.Opcode
	FrameIndex uint16
	ReturnCode uint8
}

// A Comp is a simulated block storage device controller. It implements
// bus.Transport and is what a driver's protocol engine talks to.
type Comp struct {
	hooking.HookableBase

	name    string
	ready   bool
	storage *frameStore
	faults  FaultInjector
}

// Name returns the name of the controller.
func (c *Comp) Name() string {
	return c.name
}

// Ready reports whether the controller has been initialized and not
// yet powered off.
func (c *Comp) Ready() bool {
	return c.ready
}

// SetFaultInjector installs or replaces the fault injector. A nil
// injector restores fault-free behavior.
func (c *Comp) SetFaultInjector(faults FaultInjector) {
	c.faults = faults
}

// Exchange services one bus operation. The reply register echoes the
// opcode and frame index; frame reads additionally carry the checksum
// of the returned content.
func (c *Comp) Exchange(
	reg bus.XferRegister,
	frame []byte,
) bus.XferRegister {
	op, frameIndex, checksum, _ := reg.Unpack()

	var returnCode uint8
	var replyChecksum uint32

	switch op {
	case bus.OpDeviceInit:
		c.ready = true
	case bus.OpZeroAll:
		returnCode = c.handleZeroAll()
	case bus.OpPowerOff:
		c.ready = false
	case bus.OpFrameRead:
		replyChecksum, returnCode = c.handleFrameRead(frameIndex, frame)
	case bus.OpFrameWrite:
		returnCode = c.handleFrameWrite(frameIndex, checksum, frame)
	default:
		returnCode = 1
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosOperation,
		Item: Operation{
			Location:   c.name,
			Op:         op,
			FrameIndex: frameIndex,
			ReturnCode: returnCode,
		},
	})

	return bus.PackRegister(op, frameIndex, replyChecksum, returnCode)
}

func (c *Comp) handleZeroAll() uint8 {
	if !c.ready {
		return 1
	}

	c.storage.zeroAll()

	return 0
}

func (c *Comp) handleFrameRead(
	frameIndex uint16,
	frame []byte,
) (replyChecksum uint32, returnCode uint8) {
	if !c.ready || len(frame) != bus.FrameSize {
		return 0, 1
	}

	if err := c.storage.read(frameIndex, frame); err != nil {
		return 0, 1
	}

	// The checksum always covers the uncorrupted content, so an
	// injected corruption is detectable on the driver side.
	replyChecksum = bus.FrameChecksum(frame)

	if c.faults != nil {
		c.faults.CorruptRead(frameIndex, frame)
	}

	return replyChecksum, 0
}

func (c *Comp) handleFrameWrite(
	frameIndex uint16,
	checksum uint32,
	frame []byte,
) uint8 {
	if !c.ready || len(frame) != bus.FrameSize {
		return 1
	}

	if checksum != bus.FrameChecksum(frame) {
		return 1
	}

	if c.faults != nil && c.faults.DropWrite(frameIndex) {
		return 1
	}

	if err := c.storage.write(frameIndex, frame); err != nil {
		return 1
	}

	return 0
}
