package buscontroller

import "fmt"

// A frameStore keeps the device's frame contents. Frames are allocated
// lazily: a frame that has never been written reads back as zeros.
type frameStore struct {
	frameCapacity int
	frames        map[uint16][]byte
}

func newFrameStore(frameCapacity int) *frameStore {
	return &frameStore{
		frameCapacity: frameCapacity,
		frames:        make(map[uint16][]byte),
	}
}

func (s *frameStore) read(frameIndex uint16, dst []byte) error {
	if int(frameIndex) >= s.frameCapacity {
		return fmt.Errorf("frame %d beyond device capacity %d",
			frameIndex, s.frameCapacity)
	}

	frame, ok := s.frames[frameIndex]
	if !ok {
		for i := range dst {
			dst[i] = 0
		}

		return nil
	}

	copy(dst, frame)

	return nil
}

func (s *frameStore) write(frameIndex uint16, src []byte) error {
	if int(frameIndex) >= s.frameCapacity {
		return fmt.Errorf("frame %d beyond device capacity %d",
			frameIndex, s.frameCapacity)
	}

	frame, ok := s.frames[frameIndex]
	if !ok {
		frame = make([]byte, len(src))
		s.frames[frameIndex] = frame
	}

	copy(frame, src)

	return nil
}

func (s *frameStore) zeroAll() {
	s.frames = make(map[uint16][]byte)
}
