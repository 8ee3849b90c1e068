package protocol

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/ChloapSoap/blocksim/bus"
	"github.com/ChloapSoap/blocksim/hooking"
)

type transactionCollector struct {
	transactions []Transaction
}

func (c *transactionCollector) Func(ctx hooking.HookCtx) {
	c.transactions = append(c.transactions, ctx.Item.(Transaction))
}

var _ = Describe("Engine", func() {
	var (
		mockCtrl  *gomock.Controller
		transport *MockTransport
		engine    *Engine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		transport = NewMockTransport(mockCtrl)
		engine = MakeBuilder().
			WithTransport(transport).
			Build("Engine")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should succeed on a clean exchange", func() {
		transport.EXPECT().
			Exchange(gomock.Any(), gomock.Nil()).
			DoAndReturn(func(
				reg bus.XferRegister,
				frame []byte,
			) bus.XferRegister {
				op, frameIndex, checksum, returnCode := reg.Unpack()
				Expect(op).To(Equal(bus.OpDeviceInit))
				Expect(frameIndex).To(Equal(uint16(0)))
				Expect(checksum).To(Equal(uint32(0)))
				Expect(returnCode).To(Equal(uint8(0)))

				return bus.PackRegister(bus.OpDeviceInit, 0, 0, 0)
			})

		err := engine.ExecuteOpcode(nil, bus.OpDeviceInit, 0)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should stamp a checksum on frame writes", func() {
		frame := make([]byte, bus.FrameSize)
		frame[17] = 0x5a
		expectedChecksum := bus.FrameChecksum(frame)

		transport.EXPECT().
			Exchange(gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				reg bus.XferRegister,
				frame []byte,
			) bus.XferRegister {
				op, frameIndex, checksum, _ := reg.Unpack()
				Expect(op).To(Equal(bus.OpFrameWrite))
				Expect(frameIndex).To(Equal(uint16(7)))
				Expect(checksum).To(Equal(expectedChecksum))

				return bus.PackRegister(bus.OpFrameWrite, 7, 0, 0)
			})

		err := engine.ExecuteOpcode(frame, bus.OpFrameWrite, 7)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should retry until the device acknowledges", func() {
		failing := bus.PackRegister(bus.OpFrameWrite, 3, 0, 1)
		passing := bus.PackRegister(bus.OpFrameWrite, 3, 0, 0)

		gomock.InOrder(
			transport.EXPECT().
				Exchange(gomock.Any(), gomock.Any()).
				Return(failing).
				Times(2),
			transport.EXPECT().
				Exchange(gomock.Any(), gomock.Any()).
				Return(passing),
		)

		frame := make([]byte, bus.FrameSize)
		err := engine.ExecuteOpcode(frame, bus.OpFrameWrite, 3)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should retry corrupted frame reads until the checksum matches",
		func() {
			good := make([]byte, bus.FrameSize)
			good[0] = 0xab
			goodChecksum := bus.FrameChecksum(good)

			gomock.InOrder(
				transport.EXPECT().
					Exchange(gomock.Any(), gomock.Any()).
					DoAndReturn(func(
						reg bus.XferRegister,
						frame []byte,
					) bus.XferRegister {
						copy(frame, good)
						frame[1] ^= 0xff

						return bus.PackRegister(
							bus.OpFrameRead, 3, goodChecksum, 0)
					}).
					Times(2),
				transport.EXPECT().
					Exchange(gomock.Any(), gomock.Any()).
					DoAndReturn(func(
						reg bus.XferRegister,
						frame []byte,
					) bus.XferRegister {
						copy(frame, good)

						return bus.PackRegister(
							bus.OpFrameRead, 3, goodChecksum, 0)
					}),
			)

			frame := make([]byte, bus.FrameSize)
			err := engine.ExecuteOpcode(frame, bus.OpFrameRead, 3)

			Expect(err).ToNot(HaveOccurred())
			Expect(frame).To(Equal(good))
		})

	It("should ignore the return code on frame reads", func() {
		good := make([]byte, bus.FrameSize)
		good[9] = 0x42

		transport.EXPECT().
			Exchange(gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				reg bus.XferRegister,
				frame []byte,
			) bus.XferRegister {
				copy(frame, good)

				return bus.PackRegister(
					bus.OpFrameRead, 3, bus.FrameChecksum(good), 1)
			})

		frame := make([]byte, bus.FrameSize)
		err := engine.ExecuteOpcode(frame, bus.OpFrameRead, 3)

		Expect(err).ToNot(HaveOccurred())
	})

	It("should give up when the retry bound is exhausted", func() {
		engine = MakeBuilder().
			WithTransport(transport).
			WithMaxRetries(2).
			Build("Engine")

		failing := bus.PackRegister(bus.OpFrameWrite, 3, 0, 1)

		// One initial attempt plus two retries.
		transport.EXPECT().
			Exchange(gomock.Any(), gomock.Any()).
			Return(failing).
			Times(3)

		frame := make([]byte, bus.FrameSize)
		err := engine.ExecuteOpcode(frame, bus.OpFrameWrite, 3)

		Expect(err).To(MatchError(ErrRetryLimit))
	})

	It("should invoke hooks for every attempt", func() {
		collector := &transactionCollector{}
		engine.AcceptHook(collector)

		failing := bus.PackRegister(bus.OpZeroAll, 0, 0, 1)
		passing := bus.PackRegister(bus.OpZeroAll, 0, 0, 0)

		gomock.InOrder(
			transport.EXPECT().
				Exchange(gomock.Any(), gomock.Any()).
				Return(failing),
			transport.EXPECT().
				Exchange(gomock.Any(), gomock.Any()).
				Return(passing),
		)

		err := engine.ExecuteOpcode(nil, bus.OpZeroAll, 0)

		Expect(err).ToNot(HaveOccurred())
		Expect(collector.transactions).To(HaveLen(2))
		Expect(collector.transactions[0].Attempt).To(Equal(1))
		Expect(collector.transactions[0].Succeeded).To(BeFalse())
		Expect(collector.transactions[1].Attempt).To(Equal(2))
		Expect(collector.transactions[1].Succeeded).To(BeTrue())
		Expect(collector.transactions[1].Location).To(Equal("Engine"))
	})
})
