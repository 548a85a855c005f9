package script

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vango-dev/nodetrace"
	"github.com/vango-dev/nodetrace/internal/errors"
	"github.com/vango-dev/nodetrace/pkg/dom"
	"github.com/vango-dev/nodetrace/pkg/lifecycle"
	"github.com/vango-dev/nodetrace/pkg/trace"
)

// Event is one recorded notification or hook call.
type Event struct {
	Seq    int    `json:"seq" yaml:"seq"`
	Kind   string `json:"kind" yaml:"kind"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Node   string `json:"node" yaml:"node"`
}

// String formats the event as "kind [parent] node", the form used by
// expect lists.
func (e Event) String() string {
	if e.Parent == "" {
		return e.Kind + " " + e.Node
	}
	return e.Kind + " " + e.Parent + " " + e.Node
}

// Player replays scripts against a runtime and records events.
type Player struct {
	rt     *nodetrace.Runtime
	logger *slog.Logger

	nodes  map[string]*dom.Node
	ids    map[*dom.Node]string
	events []Event

	// OnEvent, when set, is called for every recorded event.
	OnEvent func(Event)
}

// NewPlayer creates a player recording rt's notifications.
func NewPlayer(rt *nodetrace.Runtime) *Player {
	p := &Player{
		rt:     rt,
		logger: rt.Logger().With("component", "script"),
		nodes:  map[string]*dom.Node{BodyID: rt.Body()},
		ids:    map[*dom.Node]string{rt.Body(): BodyID},
	}
	rt.Observe(func(prev trace.Notifier[dom.Node]) trace.Notifier[dom.Node] {
		return trace.Notifier[dom.Node]{
			OnCreate: func(f trace.Factory, node *dom.Node) {
				p.emit(Event{Kind: "create", Node: "<" + f.Name() + "/>"})
				prev.OnCreate(f, node)
			},
			OnAttach: func(parent, child *dom.Node) {
				p.record("attach", parent, child)
				prev.OnAttach(parent, child)
			},
			OnDetach: func(parent, child *dom.Node) {
				p.record("detach", parent, child)
				prev.OnDetach(parent, child)
			},
		}
	})
	return p
}

func (p *Player) record(kind string, parent, node *dom.Node) {
	p.emit(Event{Kind: kind, Parent: p.ID(parent), Node: p.ID(node)})
}

func (p *Player) emit(e Event) {
	e.Seq = len(p.events) + 1
	p.events = append(p.events, e)
	if p.OnEvent != nil {
		p.OnEvent(e)
	}
}

// ID returns the script id of node. Nodes the script did not declare are
// named by kind and tag, e.g. "<tr>" or "[fragment]".
func (p *Player) ID(node *dom.Node) string {
	if node == nil {
		return ""
	}
	if id, ok := p.ids[node]; ok {
		return id
	}
	if node.Kind == dom.KindFragment {
		return "[fragment]"
	}
	if node.Kind == dom.KindText {
		return "[text]"
	}
	return "<" + node.Tag + ">"
}

// Node returns the node declared under id.
func (p *Player) Node(id string) (*dom.Node, bool) {
	n, ok := p.nodes[id]
	return n, ok
}

// Events returns the recorded events.
func (p *Player) Events() []Event {
	return append([]Event(nil), p.events...)
}

// Run executes every step of s, then checks s.Expect.
func (p *Player) Run(s *Script) error {
	for _, step := range s.Steps {
		if err := p.step(s, step); err != nil {
			return err
		}
	}
	p.logger.Debug("script replayed",
		"name", s.Name,
		"steps", len(s.Steps),
		"events", len(p.events),
	)
	return p.Verify(s)
}

// Verify compares the recorded events, without create events, to the
// script's expect list. A script without expectations always passes.
func (p *Player) Verify(s *Script) error {
	if len(s.Expect) == 0 {
		return nil
	}
	var got []string
	for _, e := range p.events {
		if e.Kind != "create" {
			got = append(got, e.String())
		}
	}
	for i := 0; i < len(s.Expect) || i < len(got); i++ {
		var want, have string
		if i < len(s.Expect) {
			want = strings.Join(strings.Fields(s.Expect[i]), " ")
		}
		if i < len(got) {
			have = got[i]
		}
		if want != have {
			return errors.New("T204").
				WithDetail(fmt.Sprintf("event %d: got %q, want %q", i+1, have, want)).
				WithSuggestion("Run replay without an expect list to see the recorded events")
		}
	}
	return nil
}

func (p *Player) step(s *Script, step Step) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rerr, ok := r.(error); ok && stderrors.Is(rerr, dom.ErrHierarchyRequest) {
			err = s.stepError("T205", step, rerr.Error())
			return
		}
		panic(r)
	}()

	switch step.Op {
	case OpComponent, OpCreate:
		return p.component(s, step)
	case OpElement:
		return p.construct(s, step, func(children []any) (*dom.Node, error) {
			if step.Tag == "" {
				return nil, s.stepError("T200", step, "element requires a tag")
			}
			return p.rt.H(step.Tag, children...).(*dom.Node), nil
		})
	case OpText:
		return p.construct(s, step, func([]any) (*dom.Node, error) {
			return dom.NewText(step.Text), nil
		})
	case OpFragment:
		return p.construct(s, step, func(children []any) (*dom.Node, error) {
			return p.rt.H(children).(*dom.Node), nil
		})
	case OpAttach, OpMove:
		return p.attach(s, step)
	case OpDetach:
		return p.detach(s, step)
	default:
		return s.stepError("T203", step, fmt.Sprintf("op %q", step.Op))
	}
}

// construct declares step.ID as the node built by fn from the resolved
// children.
func (p *Player) construct(s *Script, step Step, fn func(children []any) (*dom.Node, error)) error {
	if step.ID == "" {
		return s.stepError("T200", step, fmt.Sprintf("%s requires an id", step.Op))
	}
	if _, exists := p.nodes[step.ID]; exists {
		return s.stepError("T202", step, fmt.Sprintf("id %q", step.ID))
	}
	children := make([]any, 0, len(step.Children))
	for _, id := range step.Children {
		n, err := p.resolve(s, step, id)
		if err != nil {
			return err
		}
		children = append(children, n)
	}
	node, err := fn(children)
	if err != nil {
		return err
	}
	p.nodes[step.ID] = node
	p.ids[node] = step.ID
	return nil
}

func (p *Player) component(s *Script, step Step) error {
	if step.Tag == "" {
		step.Tag = "div"
	}
	name := step.Name
	if name == "" {
		name = step.ID
	}
	hooks := make([]lifecycle.Hook, 0, len(step.Hooks))
	for _, h := range step.Hooks {
		hook := lifecycle.Hook(h)
		if hook != lifecycle.OnAttach && hook != lifecycle.OnDetach {
			return s.stepError("T200", step, fmt.Sprintf("unknown hook %q", h))
		}
		hooks = append(hooks, hook)
	}

	return p.construct(s, step, func(children []any) (*dom.Node, error) {
		var node *dom.Node
		comp := dom.Func(name, func(args ...any) any {
			for _, hook := range hooks {
				p.rt.Lifecycle().Bind(hook, func() {
					p.record(string(hook), nil, node)
				})
			}
			return p.rt.H(step.Tag, args...)
		})
		out, ok := p.rt.H(comp, children...).(*dom.Node)
		if !ok {
			return nil, s.stepError("T200", step, "component did not render a node")
		}
		node = out
		return node, nil
	})
}

func (p *Player) attach(s *Script, step Step) error {
	parent, err := p.resolve(s, step, step.Parent)
	if err != nil {
		return err
	}
	var end *dom.Node
	if step.Before != "" {
		if end, err = p.resolve(s, step, step.Before); err != nil {
			return err
		}
	}

	var value any
	switch {
	case step.Child != "" && len(step.Children) > 0:
		return s.stepError("T200", step, "use either child or children")
	case step.Child != "":
		child, err := p.resolve(s, step, step.Child)
		if err != nil {
			return err
		}
		if step.Op == OpMove && child.Parent() == nil {
			return s.stepError("T200", step, fmt.Sprintf("move of %q, which has no parent", step.Child))
		}
		value = child
	case len(step.Children) > 0:
		items := make([]*dom.Node, 0, len(step.Children))
		for _, id := range step.Children {
			n, err := p.resolve(s, step, id)
			if err != nil {
				return err
			}
			items = append(items, n)
		}
		value = items
	default:
		return s.stepError("T200", step, fmt.Sprintf("%s requires child or children", step.Op))
	}

	p.rt.Add(parent, value, end)
	return nil
}

func (p *Player) detach(s *Script, step Step) error {
	parent, err := p.resolve(s, step, step.Parent)
	if err != nil {
		return err
	}
	start, err := p.resolve(s, step, step.Start)
	if err != nil {
		return err
	}
	var end *dom.Node
	if step.End != "" {
		if end, err = p.resolve(s, step, step.End); err != nil {
			return err
		}
	}
	p.rt.Rm(parent, start, end)
	return nil
}

func (p *Player) resolve(s *Script, step Step, id string) (*dom.Node, error) {
	if id == "" {
		return nil, s.stepError("T200", step, fmt.Sprintf("%s is missing a node reference", step.Op))
	}
	n, ok := p.nodes[id]
	if !ok {
		return nil, s.stepError("T201", step, fmt.Sprintf("id %q", id))
	}
	return n, nil
}

// Dump writes the logical tree under the body, one node per line.
func (p *Player) Dump(w io.Writer) error {
	return p.dump(w, p.rt.Body(), 0)
}

func (p *Player) dump(w io.Writer, node *dom.Node, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), p.label(node)); err != nil {
		return err
	}
	for _, c := range p.rt.Tracer().Children(node) {
		if err := p.dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// label is the id plus the component name for components.
func (p *Player) label(node *dom.Node) string {
	id := p.ID(node)
	if meta, ok := p.rt.Tracer().Registry().Lookup(node); ok {
		return fmt.Sprintf("<%s/> %s", meta.Name, id)
	}
	return id
}
