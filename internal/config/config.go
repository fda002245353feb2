package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the project options file looked up next to the
// program being run.
const DefaultFileName = "abra.yaml"

// Options are the tunables read from the project file. Zero values mean
// "use the default".
type Options struct {
	// Debug enables the interactive step debugger.
	Debug bool `yaml:"debug"`

	// StackSize overrides the operand stack capacity.
	StackSize int `yaml:"stack_size"`

	// Output overrides where compiled bytecode is written.
	Output string `yaml:"output"`
}

// Defaults returns the options used when no file is present.
func Defaults() Options {
	return Options{StackSize: DefaultStackSize}
}

// Load reads options from path. A missing file is not an error; it yields
// the defaults.
func Load(path string) (Options, error) {
	opts := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}
	if opts.StackSize <= 0 {
		opts.StackSize = DefaultStackSize
	}
	return opts, nil
}
