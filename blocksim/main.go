// The blocksim command simulates a block-addressed storage device and
// runs workload scripts against it.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/ChloapSoap/blocksim/blocksim/cmd"
)

func main() {
	cmd.Execute()

	// Runs the registered exit handlers so that buffered trace records
	// reach the database.
	atexit.Exit(0)
}
