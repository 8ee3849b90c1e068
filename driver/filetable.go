package driver

import (
	"strings"

	"github.com/ChloapSoap/blocksim/bus"
)

// A fileRecord is one entry in the file table.
type fileRecord struct {
	name   string
	size   int
	frames []uint16
}

// capacityBytes returns the number of bytes backed by frames already
// allocated to the file.
func (f *fileRecord) capacityBytes() int {
	return len(f.frames) * bus.FrameSize
}

// A Handle refers to an open file. Handles carry a generation so that
// a handle kept after Close is detectably stale rather than silently
// aliasing whatever reuses its slot.
type Handle struct {
	slot       int
	generation uint32
}

type handleSlot struct {
	generation uint32
	fileIndex  int
	cursor     int
	open       bool
}

// A fileTable holds the file and handle arenas. Both grow on demand;
// handle slots are reused after close with a bumped generation.
type fileTable struct {
	files   []*fileRecord
	handles []handleSlot
}

// lookupOrCreate resolves a path to a file index, creating an empty
// file record when no name matches. Name matching compares only the
// first len(path) bytes of the stored name, so a path can resolve to a
// file whose stored name merely extends it.
func (t *fileTable) lookupOrCreate(path string) int {
	for i, f := range t.files {
		if strings.HasPrefix(f.name, path) {
			return i
		}
	}

	t.files = append(t.files, &fileRecord{name: path})

	return len(t.files) - 1
}

// openHandle binds a fresh handle to a file, reusing a closed slot
// when one exists.
func (t *fileTable) openHandle(fileIndex int) Handle {
	for i := range t.handles {
		if !t.handles[i].open {
			t.handles[i].fileIndex = fileIndex
			t.handles[i].cursor = 0
			t.handles[i].open = true

			return Handle{slot: i, generation: t.handles[i].generation}
		}
	}

	t.handles = append(t.handles, handleSlot{
		fileIndex: fileIndex,
		open:      true,
	})

	return Handle{slot: len(t.handles) - 1}
}

// get resolves a handle to its slot, rejecting unknown, closed, and
// stale handles.
func (t *fileTable) get(h Handle) (*handleSlot, error) {
	if h.slot < 0 || h.slot >= len(t.handles) {
		return nil, ErrInvalidHandle
	}

	s := &t.handles[h.slot]
	if !s.open || s.generation != h.generation {
		return nil, ErrInvalidHandle
	}

	return s, nil
}

// closeSlot marks a slot closed, invalidates its cursor, and bumps the
// generation so outstanding handles to it go stale.
func (t *fileTable) closeSlot(s *handleSlot) {
	s.open = false
	s.cursor = -1
	s.fileIndex = -1
	s.generation++
}

func (t *fileTable) closeAll() {
	for i := range t.handles {
		if t.handles[i].open {
			t.closeSlot(&t.handles[i])
		}
	}
}

func (t *fileTable) reset() {
	t.files = nil
	t.handles = nil
}

func (t *fileTable) openHandleCount() int {
	count := 0
	for i := range t.handles {
		if t.handles[i].open {
			count++
		}
	}

	return count
}
