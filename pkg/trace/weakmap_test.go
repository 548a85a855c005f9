package trace

import (
	"runtime"
	"testing"
	"time"
)

type testKey struct {
	name string
	next *testKey
}

func TestWeakMapSetGetDelete(t *testing.T) {
	m := NewWeakMap[testKey, string]()
	k := &testKey{name: "a"}

	if _, ok := m.Get(k); ok {
		t.Fatal("empty map should not contain key")
	}

	m.Set(k, "one")
	m.Set(k, "two")
	if v, ok := m.Get(k); !ok || v != "two" {
		t.Errorf("Get() = %q, %v, want %q, true", v, ok, "two")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}

	if !m.Delete(k) {
		t.Error("Delete() should report an existing entry")
	}
	if m.Delete(k) {
		t.Error("second Delete() should report no entry")
	}
	if m.Has(k) {
		t.Error("key should be gone after Delete")
	}
}

func TestWeakMapNilKey(t *testing.T) {
	m := NewWeakMap[testKey, int]()
	m.Set(nil, 1)
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	if m.Has(nil) || m.Delete(nil) {
		t.Error("nil key must never be present")
	}
}

func TestWeakMapDistinguishesKeys(t *testing.T) {
	m := NewWeakMap[testKey, string]()
	a, b := &testKey{name: "a"}, &testKey{name: "a"}
	m.Set(a, "a")

	if m.Has(b) {
		t.Error("keys are compared by identity, not value")
	}
	runtime.KeepAlive(a)
}

func TestWeakMapEvictsCollectedKeys(t *testing.T) {
	m := NewWeakMap[testKey, string]()
	func() {
		k := &testKey{name: "temp"}
		m.Set(k, "value")
	}()

	deadline := time.Now().Add(5 * time.Second)
	for m.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("entry was not evicted, Len() = %d", m.Len())
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWeakMapDoesNotRetainKey(t *testing.T) {
	m := NewWeakMap[testKey, *Children[testKey]]()
	child := &testKey{name: "child"}
	func() {
		parent := &testKey{name: "parent"}
		child.next = parent
		m.Set(parent, NewChildren(child))
		child.next = nil
	}()

	deadline := time.Now().Add(5 * time.Second)
	for m.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("a child set must not keep its owner alive")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	runtime.KeepAlive(child)
}
