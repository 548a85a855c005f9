package dom

// Component is a named factory. H recognizes it and calls Render with the
// remaining arguments; the result may be a *Node or any other value.
type Component struct {
	name   string
	render func(args ...any) any
}

// Func creates a component from a render function.
func Func(name string, render func(args ...any) any) *Component {
	return &Component{name: name, render: render}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.name
}

// Render calls the wrapped function.
func (c *Component) Render(args ...any) any {
	if c.render == nil {
		return nil
	}
	return c.render(args...)
}
