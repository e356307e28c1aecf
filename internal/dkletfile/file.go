// Where: internal/dkletfile/file.go
// What: Declarative application profile model and loader.
// Why: Describe an application as data instead of a script evaluated at startup.
package dkletfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the application file does not exist.
	ErrNotFound = errors.New("application file not found")
	// ErrReservedVar is returned when vars names a key that has a dedicated field.
	ErrReservedVar = errors.New("reserved key in vars")
)

// StringList accepts either a scalar or a sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = StringList{node.Value}
		return nil
	}
	var items []string
	if err := node.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Step is one hook action; exactly one field is set.
type Step struct {
	Sh   string `yaml:"sh,omitempty"`
	Exec string `yaml:"exec,omitempty"`
}

// Task holds option overrides and hooks for one command.
type Task struct {
	Options map[string]any `yaml:"options,omitempty"`
	Before  []Step         `yaml:"before,omitempty"`
	After   []Step         `yaml:"after,omitempty"`
}

// File is a decoded application profile.
type File struct {
	App           string            `yaml:"app,omitempty"`
	ScriptName    string            `yaml:"script_name,omitempty"`
	DefaultEnv    string            `yaml:"default_env,omitempty"`
	Image         string            `yaml:"image,omitempty"`
	ImageTag      string            `yaml:"image_tag,omitempty"`
	ImageLabels   string            `yaml:"image_labels,omitempty"`
	ContainerName string            `yaml:"container_name,omitempty"`
	OpsContainer  string            `yaml:"ops_container,omitempty"`
	Net           string            `yaml:"net,omitempty"`
	BuildNet      string            `yaml:"build_net,omitempty"`
	BuildRoot     *string           `yaml:"build_root,omitempty"`
	Approot       string            `yaml:"approot,omitempty"`
	ComposeName   string            `yaml:"compose_name,omitempty"`
	ExecOpts      string            `yaml:"exec_opts,omitempty"`
	Domains       StringList        `yaml:"domains,omitempty"`
	Tags          StringList        `yaml:"tags,omitempty"`
	Notes         StringList        `yaml:"notes,omitempty"`
	Disable       StringList        `yaml:"disable,omitempty"`
	Dockerfile    string            `yaml:"dockerfile,omitempty"`
	Specfile      string            `yaml:"specfile,omitempty"`
	Vars          map[string]string `yaml:"vars,omitempty"`
	Tasks         map[string]Task   `yaml:"tasks,omitempty"`

	// Path is the file the profile was loaded from.
	Path string `yaml:"-"`
	// NoBuildContext is set when build_root is present and null.
	NoBuildContext bool `yaml:"-"`
}

// Load reads, validates and decodes the application file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file.Path = path
	return file, nil
}

// Parse validates and decodes application file content.
func Parse(data []byte) (*File, error) {
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("invalid application file: %w", err)
	}
	file := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode application file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode application file: %w", err)
	}
	if value, ok := raw["build_root"]; ok && value == nil {
		file.NoBuildContext = true
	}
	return file, nil
}
