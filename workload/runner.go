package workload

import (
	"fmt"
	"io"

	"github.com/ChloapSoap/blocksim/driver"
)

// A Runner applies parsed operations to a driver, tracking one open
// handle per script name. Read results are written to Out.
type Runner struct {
	Driver *driver.Driver
	Out    io.Writer

	handles map[string]driver.Handle
}

// NewRunner creates a Runner on a powered-on driver.
func NewRunner(d *driver.Driver, out io.Writer) *Runner {
	return &Runner{
		Driver:  d,
		Out:     out,
		handles: make(map[string]driver.Handle),
	}
}

// Run applies ops in order and stops on the first failure.
func (r *Runner) Run(ops []Op) error {
	for _, op := range ops {
		if err := r.runOp(op); err != nil {
			return fmt.Errorf("line %d: %s %s: %w",
				op.Line, op.Verb, op.Name, err)
		}
	}

	return nil
}

func (r *Runner) runOp(op Op) error {
	if op.Verb == VerbOpen {
		h, err := r.Driver.Open(op.Name)
		if err != nil {
			return err
		}

		r.handles[op.Name] = h

		return nil
	}

	h, ok := r.handles[op.Name]
	if !ok {
		return fmt.Errorf("%q is not open", op.Name)
	}

	switch op.Verb {
	case VerbClose:
		if err := r.Driver.Close(h); err != nil {
			return err
		}

		delete(r.handles, op.Name)

		return nil
	case VerbSeek:
		return r.Driver.Seek(h, op.Arg)
	case VerbRead:
		buf := make([]byte, op.Arg)

		n, err := r.Driver.Read(h, buf)
		if err != nil {
			return err
		}

		fmt.Fprintf(r.Out, "%s: %q\n", op.Name, buf[:n])

		return nil
	case VerbWrite:
		_, err := r.Driver.Write(h, op.Data)
		return err
	}

	panic("invalid verb")
}
