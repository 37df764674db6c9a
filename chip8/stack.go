package chip8

import "errors"

// StackDepth is the number of nested calls the machine supports.
const StackDepth = 16

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("return with empty stack")
)

// Stack is a bounded LIFO of return addresses.
type Stack struct {
	sp    int
	addrs [StackDepth]uint16
}

// Call pushes a return address.
func (s *Stack) Call(ret uint16) error {
	if s.sp == StackDepth {
		return ErrStackOverflow
	}
	s.addrs[s.sp] = ret
	s.sp++
	return nil
}

// Ret pops the most recent return address.
func (s *Stack) Ret() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.addrs[s.sp], nil
}

func (s *Stack) Depth() int {
	return s.sp
}

// Frames returns the pushed return addresses, outermost call first.
func (s *Stack) Frames() []uint16 {
	frames := make([]uint16, s.sp)
	copy(frames, s.addrs[:s.sp])
	return frames
}
