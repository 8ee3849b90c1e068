// Package bus defines the register-level contract between the block
// device driver and the simulated device controller. One bus operation
// carries a packed 64-bit transfer register and, for data-moving
// opcodes, a 4096-byte frame buffer.
package bus

import "fmt"

// FrameSize is the number of bytes in one storage frame. It is both the
// unit of transfer on the bus and the granularity of caching.
const FrameSize = 4096

// An Opcode selects the operation a transfer register requests from the
// device controller.
type Opcode uint8

const (
	// OpDeviceInit brings the device controller up.
	OpDeviceInit Opcode = iota

	// OpZeroAll discards the content of every frame on the device.
	OpZeroAll

	// OpFrameRead transfers one frame from the device into the
	// exchange buffer.
	OpFrameRead

	// OpFrameWrite transfers the exchange buffer into one frame on
	// the device.
	OpFrameWrite

	// OpPowerOff shuts the device controller down.
	OpPowerOff
)

func (o Opcode) String() string {
	switch o {
	case OpDeviceInit:
		return "DeviceInit"
	case OpZeroAll:
		return "ZeroAll"
	case OpFrameRead:
		return "FrameRead"
	case OpFrameWrite:
		return "FrameWrite"
	case OpPowerOff:
		return "PowerOff"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

// An XferRegister is the packed command/response word exchanged with
// the device controller.
//
// Layout, from the most significant bit:
//
//	bits 63-56: opcode
//	bits 55-40: frame index
//	bits 39-8:  checksum
//	bits 7-0:   return code
type XferRegister uint64

// PackRegister assembles a transfer register from its four fields.
func PackRegister(
	op Opcode,
	frameIndex uint16,
	checksum uint32,
	returnCode uint8,
) XferRegister {
	return XferRegister(uint64(op)<<56 |
		uint64(frameIndex)<<40 |
		uint64(checksum)<<8 |
		uint64(returnCode))
}

// Unpack splits a transfer register back into its four fields. Packing
// and unpacking round-trip losslessly.
func (r XferRegister) Unpack() (
	op Opcode,
	frameIndex uint16,
	checksum uint32,
	returnCode uint8,
) {
	op = Opcode(r >> 56)
	frameIndex = uint16(r >> 40)
	checksum = uint32(r >> 8)
	returnCode = uint8(r)

	return
}

// Opcode returns the opcode field of the register.
func (r XferRegister) Opcode() Opcode {
	return Opcode(r >> 56)
}

// ReturnCode returns the return code field of the register.
func (r XferRegister) ReturnCode() uint8 {
	return uint8(r)
}
