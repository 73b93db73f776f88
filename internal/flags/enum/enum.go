// Package enum provides a pflag.Value that only accepts one of a fixed set
// of options.
package enum

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Flag is a string flag restricted to a list of options. The first option
// is the default.
type Flag struct {
	options []string
	value   string
}

var _ pflag.Value = (*Flag)(nil)

// New returns a flag accepting the given options. It panics if there are
// none.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("enum: at least one option is required")
	}
	return &Flag{options: options, value: options[0]}
}

func (f *Flag) String() string { return f.value }

// Set implements pflag.Value.
func (f *Flag) Set(value string) error {
	if !slices.Contains(f.options, value) {
		return fmt.Errorf("must be one of %s", strings.Join(f.options, ", "))
	}
	f.value = value
	return nil
}

// Type implements pflag.Value.
func (f *Flag) Type() string { return "enum" }

// Var defines an enum flag on flags. The first option is the default, and
// the options are listed in the usage text.
func Var(flags *pflag.FlagSet, name string, options []string, usage string) {
	flags.Var(New(options...), name, fmt.Sprintf("%s\n(must be one of [%s])", usage, strings.Join(options, " ")))
}

// Get returns the value of the enum flag with the given name.
func Get(flags *pflag.FlagSet, name string) (string, error) {
	flag := flags.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag %q is not defined", name)
	}
	f, ok := flag.Value.(*Flag)
	if !ok {
		return "", fmt.Errorf("flag %q is not an enum flag", name)
	}
	return f.value, nil
}
