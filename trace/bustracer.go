// Package trace records bus traffic into a data recorder so that
// simulated device behavior can be inspected after a run.
package trace

import (
	"github.com/rs/xid"

	"github.com/ChloapSoap/blocksim/buscontroller"
	"github.com/ChloapSoap/blocksim/datarecording"
	"github.com/ChloapSoap/blocksim/hooking"
	"github.com/ChloapSoap/blocksim/protocol"
)

const (
	busTableName    = "bus_transactions"
	deviceTableName = "device_operations"
)

type busTransactionEntry struct {
	ID         string
	Location   string
	Op         string
	FrameIndex int
	Checksum   int64
	ReturnCode int
	Attempt    int
	Succeeded  bool
}

type deviceOperationEntry struct {
	ID         string
	Location   string
	Op         string
	FrameIndex int
	ReturnCode int
}

// A BusTracer is a hook that records every bus attempt seen by a
// protocol engine and every operation serviced by a bus controller.
type BusTracer struct {
	backend datarecording.DataRecorder
}

// NewBusTracer creates a BusTracer on the given backend and declares
// its tables.
func NewBusTracer(backend datarecording.DataRecorder) *BusTracer {
	backend.CreateTable(busTableName, busTransactionEntry{})
	backend.CreateTable(deviceTableName, deviceOperationEntry{})

	return &BusTracer{backend: backend}
}

// Func records one hook invocation. Hook items that are neither engine
// transactions nor controller operations are ignored.
func (t *BusTracer) Func(ctx hooking.HookCtx) {
	switch item := ctx.Item.(type) {
	case protocol.Transaction:
		t.backend.InsertData(busTableName, busTransactionEntry{
			ID:         xid.New().String(),
			Location:   item.Location,
			Op:         item.Op.String(),
			FrameIndex: int(item.FrameIndex),
			Checksum:   int64(item.Checksum),
			ReturnCode: int(item.ReturnCode),
			Attempt:    item.Attempt,
			Succeeded:  item.Succeeded,
		})
	case buscontroller.Operation:
		t.backend.InsertData(deviceTableName, deviceOperationEntry{
			ID:         xid.New().String(),
			Location:   item.Location,
			Op:         item.Op.String(),
			FrameIndex: int(item.FrameIndex),
			ReturnCode: int(item.ReturnCode),
		})
	}
}
