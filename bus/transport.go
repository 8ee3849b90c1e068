package bus

// A Transport carries one transfer register and one frame buffer to the
// device controller and returns the controller's reply register.
//
// Exchange may overwrite frame: a frame-read reply places the stored
// frame content in it, and after any other opcode the buffer content is
// unspecified. frame may be nil for opcodes that move no data.
type Transport interface {
	Exchange(reg XferRegister, frame []byte) XferRegister
}
