package inspect

import (
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/nodetrace"
	"github.com/vango-dev/nodetrace/pkg/dom"
)

// Node kinds in a snapshot.
const (
	KindComponent = "component"
	KindGuard     = "guard"
	KindNode      = "node"
)

// NodeInfo describes one node of the logical tree.
type NodeInfo struct {
	Label     string      `json:"label"`
	Kind      string      `json:"kind"`
	Name      string      `json:"name,omitempty"`
	Tag       string      `json:"tag,omitempty"`
	Connected bool        `json:"connected"`
	Hooks     int         `json:"hooks,omitempty"`
	Children  []*NodeInfo `json:"children,omitempty"`
}

// Snapshot is an immutable copy of the logical tree under the body.
type Snapshot struct {
	ID         string    `json:"id"`
	Seq        int       `json:"seq"`
	TakenAt    time.Time `json:"taken_at"`
	StackDepth int       `json:"stack_depth"`
	Components int       `json:"components"`
	Entries    int       `json:"entries"`
	Root       *NodeInfo `json:"root"`
}

// Labeler names a node in snapshots and events.
type Labeler func(node *dom.Node) string

// DefaultLabel names components by their component name and other nodes by
// tag or kind.
func DefaultLabel(rt *nodetrace.Runtime) Labeler {
	return func(node *dom.Node) string {
		if node == nil {
			return ""
		}
		if meta, ok := rt.Tracer().Registry().Lookup(node); ok {
			return meta.Name
		}
		switch node.Kind {
		case dom.KindText:
			return "#text"
		case dom.KindFragment:
			return "#fragment"
		default:
			return node.Tag
		}
	}
}

// Take copies the logical tree of rt starting at the body.
func Take(rt *nodetrace.Runtime, label Labeler, seq int) *Snapshot {
	tr := rt.Tracer()
	return &Snapshot{
		ID:         uuid.NewString(),
		Seq:        seq,
		TakenAt:    time.Now(),
		StackDepth: tr.Stack().Len(),
		Components: tr.Registry().Len(),
		Entries:    tr.Tree().Len(),
		Root:       describe(rt, label, rt.Body()),
	}
}

func describe(rt *nodetrace.Runtime, label Labeler, node *dom.Node) *NodeInfo {
	tr := rt.Tracer()
	info := &NodeInfo{
		Label:     label(node),
		Kind:      KindNode,
		Tag:       node.Tag,
		Connected: rt.Document().IsConnected(node),
	}
	if meta, ok := tr.Registry().Lookup(node); ok {
		info.Kind = KindComponent
		info.Name = meta.Name
		info.Hooks = meta.HookCount()
	} else if tr.IsGuard(node) {
		info.Kind = KindGuard
	}
	for _, c := range tr.Children(node) {
		info.Children = append(info.Children, describe(rt, label, c))
	}
	return info
}

// Find returns the first node in s with the given label, depth first.
func (s *Snapshot) Find(label string) *NodeInfo {
	if s == nil {
		return nil
	}
	return find(s.Root, label)
}

func find(n *NodeInfo, label string) *NodeInfo {
	if n == nil {
		return nil
	}
	if n.Label == label {
		return n
	}
	for _, c := range n.Children {
		if found := find(c, label); found != nil {
			return found
		}
	}
	return nil
}
