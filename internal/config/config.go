// Package config holds process-wide compiler switches: word size and
// register-name constants, recognized source extensions, and an optional
// CompilerOptions file loaded from YAML. constants.go carries the fixed
// vocabulary, config.go the user-editable part.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CompilerOptions is the optional, user-editable half of the configuration.
// None of its fields change compiled output on this target — the compiler
// only ever emits Temp-form x86-64 — they only affect diagnostics and
// debug tooling.
type CompilerOptions struct {
	// Target is informational only; this compiler always emits x86-64.
	Target string `yaml:"target,omitempty"`

	// KeepInternalStackTraces is parsed and kept on the struct, but nothing
	// in this module reads it: internal-error panics are never trimmed,
	// whatever its value.
	KeepInternalStackTraces bool `yaml:"keep_internal_stack_traces,omitempty"`

	// DebugDump, when true, makes the driver print the final assembly
	// listing, the same as its -v flag; output of the earlier stages is not
	// printed.
	DebugDump bool `yaml:"debug_dump,omitempty"`
}

func defaultOptions() CompilerOptions {
	return CompilerOptions{Target: "x86_64"}
}

// LoadOptions reads and parses a CompilerOptions file from path.
func LoadOptions(path string) (*CompilerOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseOptions(data, path)
}

// ParseOptions parses CompilerOptions content from bytes. path is used only
// for error messages.
func ParseOptions(data []byte, path string) (*CompilerOptions, error) {
	opts := defaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := opts.validate(path); err != nil {
		return nil, err
	}
	return &opts, nil
}

// FindOptions searches for tigerc.yaml starting from dir and walking up to
// parent directories. Returns "" with a nil error if no config file exists
// anywhere above dir.
func FindOptions(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"tigerc.yaml", "tigerc.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (o *CompilerOptions) validate(path string) error {
	if o.Target != "" && o.Target != "x86_64" {
		return fmt.Errorf("%s: unsupported target %q (only x86_64 is emitted)", path, o.Target)
	}
	return nil
}
