package trace

import (
	"errors"

	terrors "github.com/vango-dev/nodetrace/internal/errors"
)

// ErrNoActiveConstruction is returned when the render stack is empty.
var ErrNoActiveConstruction = errors.New("trace: no active construction")

// Frame is the record of one in-progress construction.
type Frame struct {
	// Name is the component name.
	Name string

	// Hooks are lifecycle callbacks bound while the component constructs.
	Hooks map[string]func()
}

// Bind registers fn under name, replacing a previous binding.
func (f *Frame) Bind(name string, fn func()) {
	if f.Hooks == nil {
		f.Hooks = make(map[string]func())
	}
	f.Hooks[name] = fn
}

// Stack is the render stack. The top frame belongs to the innermost
// component currently constructing.
type Stack struct {
	frames []*Frame
}

// Push starts a frame for the named component.
func (s *Stack) Push(name string) *Frame {
	f := &Frame{Name: name}
	s.frames = append(s.frames, f)
	return f
}

// Pop ends the top frame. It returns nil on an empty stack.
func (s *Stack) Pop() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Peek returns the active frame.
func (s *Stack) Peek() (*Frame, error) {
	if len(s.frames) == 0 {
		return nil, terrors.New("T001").Wrap(ErrNoActiveConstruction)
	}
	return s.frames[len(s.frames)-1], nil
}

// Len returns the stack depth.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Frames returns the frames bottom first. The slice is a copy.
func (s *Stack) Frames() []*Frame {
	return append([]*Frame(nil), s.frames...)
}
