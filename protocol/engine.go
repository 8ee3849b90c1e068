// Package protocol implements the checksum-verified opcode engine that
// drives the device bus. The engine packs commands into transfer
// registers, exchanges them with the transport, and retries until the
// device acknowledges success.
package protocol

import (
	"errors"

	"github.com/ChloapSoap/blocksim/bus"
	"github.com/ChloapSoap/blocksim/hooking"
)

// ErrRetryLimit is returned when a retry bound is configured and the
// bus keeps failing past it. With the default unbounded configuration
// this error is never returned.
var ErrRetryLimit = errors.New("bus retry limit exceeded")

// HookPosBusAttempt marks the completion of one exchange with the bus,
// successful or not. The hook item is a Transaction.
var HookPosBusAttempt = &hooking.HookPos{Name: "BusAttempt"}

// A Transaction describes one exchange with the bus as observed by the
// engine.
type Transaction struct {
	Location   string
	Op         bus.Opcode
	FrameIndex uint16
	Checksum   uint32
	ReturnCode uint8
	Attempt    int
	Succeeded  bool
}

// An Engine drives the bus transport on behalf of the device driver.
type Engine struct {
	hooking.HookableBase

	name       string
	transport  bus.Transport
	maxRetries int
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// ExecuteOpcode runs one opcode against the device and returns only
// once the device acknowledges success.
//
// For a frame write, the checksum over frame is placed in the outgoing
// register so the device can reject corrupted payloads. For a frame
// read, the reply checksum is verified against the returned buffer
// content; a mismatch counts as a failure. Every other opcode succeeds
// iff the reply return code is zero.
//
// Failures are retried transparently. When a retry bound is set and
// exhausted, ErrRetryLimit is returned. The caller must assume frame
// holds whatever the bus last returned.
func (e *Engine) ExecuteOpcode(
	frame []byte,
	op bus.Opcode,
	frameIndex uint16,
) error {
	for attempt := 1; ; attempt++ {
		var checksum uint32
		if op == bus.OpFrameWrite {
			checksum = bus.FrameChecksum(frame)
		}

		reg := bus.PackRegister(op, frameIndex, checksum, 0)
		reply := e.transport.Exchange(reg, frame)

		replyOp, replyFrameIndex, replyChecksum, returnCode := reply.Unpack()

		succeeded := returnCode == 0
		if replyOp == bus.OpFrameRead {
			succeeded = replyChecksum == bus.FrameChecksum(frame)
		}

		e.InvokeHook(hooking.HookCtx{
			Domain: e,
			Pos:    HookPosBusAttempt,
			Item: Transaction{
				Location:   e.name,
				Op:         replyOp,
				FrameIndex: replyFrameIndex,
				Checksum:   replyChecksum,
				ReturnCode: returnCode,
				Attempt:    attempt,
				Succeeded:  succeeded,
			},
		})

		if succeeded {
			return nil
		}

		if e.maxRetries > 0 && attempt > e.maxRetries {
			return ErrRetryLimit
		}
	}
}
