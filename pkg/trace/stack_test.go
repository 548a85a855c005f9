package trace

import (
	"errors"
	"testing"

	terrors "github.com/vango-dev/nodetrace/internal/errors"
)

func TestStackLIFO(t *testing.T) {
	var s Stack
	outer := s.Push("Outer")
	inner := s.Push("Inner")

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if top, err := s.Peek(); err != nil || top != inner {
		t.Errorf("Peek() = %v, %v, want inner frame", top, err)
	}
	if got := s.Pop(); got != inner {
		t.Errorf("Pop() = %v, want inner frame", got)
	}
	if top, _ := s.Peek(); top != outer {
		t.Errorf("Peek() after pop = %v, want outer frame", top)
	}
	s.Pop()
	if s.Pop() != nil {
		t.Error("Pop() on an empty stack should return nil")
	}
}

func TestStackPeekEmpty(t *testing.T) {
	var s Stack
	_, err := s.Peek()
	if err == nil {
		t.Fatal("Peek() on an empty stack should fail")
	}
	if !errors.Is(err, ErrNoActiveConstruction) {
		t.Errorf("error %v should wrap ErrNoActiveConstruction", err)
	}
	var te *terrors.TraceError
	if !errors.As(err, &te) || te.Code != "T001" {
		t.Errorf("error %v should be a T001 TraceError", err)
	}
}

func TestStackFramesCopy(t *testing.T) {
	var s Stack
	s.Push("A")
	s.Push("B")

	frames := s.Frames()
	s.Pop()

	if len(frames) != 2 || frames[0].Name != "A" || frames[1].Name != "B" {
		t.Errorf("Frames() = %v, want [A B]", frames)
	}
}

func TestFrameBind(t *testing.T) {
	f := &Frame{Name: "Cell"}
	calls := 0
	f.Bind("onAttach", func() { calls++ })
	f.Bind("onAttach", func() { calls += 10 })

	f.Hooks["onAttach"]()
	if calls != 10 {
		t.Errorf("calls = %d, want 10 (later binding replaces earlier)", calls)
	}
}

func TestRegistryCommit(t *testing.T) {
	r := NewRegistry[testKey]()
	node := &testKey{name: "td"}
	frame := &Frame{Name: "Cell"}
	frame.Bind("onAttach", func() {})

	r.Commit(node, frame)

	meta, ok := r.Lookup(node)
	if !ok {
		t.Fatal("Lookup() should find the committed node")
	}
	if meta.Name != "Cell" {
		t.Errorf("Name = %q, want %q", meta.Name, "Cell")
	}
	if meta.Hook("onAttach") == nil || meta.Hook("onDetach") != nil {
		t.Error("hooks were not carried over from the frame")
	}
	if meta.HookCount() != 1 {
		t.Errorf("HookCount() = %d, want 1", meta.HookCount())
	}

	var none *Meta
	if none.Hook("onAttach") != nil || none.HookCount() != 0 {
		t.Error("nil Meta should have no hooks")
	}
}
