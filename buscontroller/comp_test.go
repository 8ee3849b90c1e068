package buscontroller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ChloapSoap/blocksim/bus"
)

type corruptOnce struct {
	remaining int
}

func (f *corruptOnce) CorruptRead(frameIndex uint16, frame []byte) bool {
	if f.remaining == 0 {
		return false
	}

	f.remaining--
	frame[0] ^= 0xff

	return true
}

func (f *corruptOnce) DropWrite(frameIndex uint16) bool {
	return false
}

var _ = Describe("Comp", func() {
	var controller *Comp

	writeFrame := func(frameIndex uint16, frame []byte) bus.XferRegister {
		reg := bus.PackRegister(
			bus.OpFrameWrite, frameIndex, bus.FrameChecksum(frame), 0)
		return controller.Exchange(reg, frame)
	}

	readFrame := func(frameIndex uint16, frame []byte) bus.XferRegister {
		reg := bus.PackRegister(bus.OpFrameRead, frameIndex, 0, 0)
		return controller.Exchange(reg, frame)
	}

	BeforeEach(func() {
		controller = MakeBuilder().
			WithFrameCapacity(128).
			Build("Controller")

		reg := bus.PackRegister(bus.OpDeviceInit, 0, 0, 0)
		controller.Exchange(reg, nil)
	})

	It("should become ready on device init", func() {
		Expect(controller.Ready()).To(BeTrue())
	})

	It("should stop being ready on power off", func() {
		reg := bus.PackRegister(bus.OpPowerOff, 0, 0, 0)
		reply := controller.Exchange(reg, nil)

		Expect(reply.ReturnCode()).To(Equal(uint8(0)))
		Expect(controller.Ready()).To(BeFalse())
	})

	It("should store and return frame content", func() {
		frame := make([]byte, bus.FrameSize)
		frame[10] = 0x33

		reply := writeFrame(5, frame)
		Expect(reply.ReturnCode()).To(Equal(uint8(0)))

		returned := make([]byte, bus.FrameSize)
		reply = readFrame(5, returned)

		_, _, checksum, returnCode := reply.Unpack()
		Expect(returnCode).To(Equal(uint8(0)))
		Expect(returned).To(Equal(frame))
		Expect(checksum).To(Equal(bus.FrameChecksum(frame)))
	})

	It("should read zeros from a frame never written", func() {
		frame := make([]byte, bus.FrameSize)
		for i := range frame {
			frame[i] = 0xee
		}

		reply := readFrame(9, frame)

		Expect(reply.ReturnCode()).To(Equal(uint8(0)))
		Expect(frame).To(Equal(make([]byte, bus.FrameSize)))
	})

	It("should reject a write with a wrong checksum", func() {
		frame := make([]byte, bus.FrameSize)
		frame[0] = 1

		reg := bus.PackRegister(bus.OpFrameWrite, 5, 0xbad, 0)
		reply := controller.Exchange(reg, frame)

		Expect(reply.ReturnCode()).To(Equal(uint8(1)))

		returned := make([]byte, bus.FrameSize)
		readFrame(5, returned)
		Expect(returned).To(Equal(make([]byte, bus.FrameSize)))
	})

	It("should reject frame access beyond device capacity", func() {
		frame := make([]byte, bus.FrameSize)

		reply := writeFrame(128, frame)
		Expect(reply.ReturnCode()).To(Equal(uint8(1)))

		reply = readFrame(128, frame)
		Expect(reply.ReturnCode()).To(Equal(uint8(1)))
	})

	It("should drop all content on zero-all", func() {
		frame := make([]byte, bus.FrameSize)
		frame[0] = 0x77
		writeFrame(3, frame)

		reg := bus.PackRegister(bus.OpZeroAll, 0, 0, 0)
		reply := controller.Exchange(reg, nil)
		Expect(reply.ReturnCode()).To(Equal(uint8(0)))

		returned := make([]byte, bus.FrameSize)
		readFrame(3, returned)
		Expect(returned).To(Equal(make([]byte, bus.FrameSize)))
	})

	It("should reject frame operations before device init", func() {
		controller = MakeBuilder().Build("ColdController")

		frame := make([]byte, bus.FrameSize)
		reply := readFrame(0, frame)

		Expect(reply.ReturnCode()).To(Equal(uint8(1)))
	})

	It("should keep the true checksum on an injected corruption", func() {
		frame := make([]byte, bus.FrameSize)
		frame[0] = 0x12
		writeFrame(4, frame)

		controller.SetFaultInjector(&corruptOnce{remaining: 1})

		returned := make([]byte, bus.FrameSize)
		reply := readFrame(4, returned)

		_, _, checksum, returnCode := reply.Unpack()
		Expect(returnCode).To(Equal(uint8(0)))
		Expect(checksum).To(Equal(bus.FrameChecksum(frame)))
		Expect(checksum).ToNot(Equal(bus.FrameChecksum(returned)))
	})
})
