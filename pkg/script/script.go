package script

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/nodetrace/internal/errors"
)

// Operation names.
const (
	OpComponent = "component"
	OpCreate    = "create"
	OpElement   = "element"
	OpText      = "text"
	OpFragment  = "fragment"
	OpAttach    = "attach"
	OpMove      = "move"
	OpDetach    = "detach"
)

// BodyID names the document body.
const BodyID = "body"

// Script is a parsed operation script.
type Script struct {
	Name   string   `yaml:"name"`
	Steps  []Step   `yaml:"steps"`
	Expect []string `yaml:"expect"`

	path string
}

// Step is one operation.
type Step struct {
	Op string `yaml:"op"`

	// ID names the node a construction step creates.
	ID string `yaml:"id"`

	// Name is the component name (component).
	Name string `yaml:"name"`

	// Tag is the element tag (component, element).
	Tag string `yaml:"tag"`

	// Text is the content of a text node.
	Text string `yaml:"text"`

	// Hooks are the lifecycle hooks a component binds.
	Hooks []string `yaml:"hooks"`

	// Children are node ids: rendered children for construction steps, or
	// a sequence to attach.
	Children []string `yaml:"children"`

	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
	Before string `yaml:"before"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`

	line int
}

// stepKeys are the keys a step may use.
var stepKeys = map[string]bool{
	"op": true, "id": true, "name": true, "tag": true, "text": true,
	"hooks": true, "children": true, "parent": true, "child": true,
	"before": true, "start": true, "end": true,
}

// UnmarshalYAML rejects unknown keys and records the step's line for error
// locations.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i]
			if !stepKeys[key.Value] {
				return fmt.Errorf("line %d: unknown step field %q", key.Line, key.Value)
			}
		}
	}
	type plain Step
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	s.line = value.Line
	return nil
}

// Line returns the line the step starts on, or 0.
func (s Step) Line() int {
	return s.line
}

// Path returns the file the script was read from, or "".
func (s *Script) Path() string {
	return s.path
}

// Parse parses a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, errors.New("T200").WithDetail(err.Error()).Wrap(err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("T200").WithDetail("script has no steps")
	}
	return &s, nil
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("T200").WithDetail(fmt.Sprintf("cannot read %s", path)).Wrap(err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.path = path
	return s, nil
}

// stepError returns a script error located at step.
func (s *Script) stepError(code string, step Step, detail string) *errors.TraceError {
	err := errors.New(code).WithDetail(detail)
	if s.path != "" && step.line > 0 {
		return err.WithLocation(s.path, step.line, 0)
	}
	if step.line > 0 {
		err.Location = &errors.Location{Line: step.line}
	}
	return err
}
