// Package config loads and validates reactivegen.yaml, the per-project
// configuration of the generator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/reactiveobject/reactivegen/internal/cases"
	"github.com/reactiveobject/reactivegen/render"
)

// FileName is the name of the configuration file looked up in a project
// directory.
const FileName = "reactivegen.yaml"

// Config holds the settings of one project. Paths and globs are relative
// to the project directory.
type Config struct {
	// Inputs are doublestar globs selecting the C# files to read.
	Inputs []string `yaml:"inputs" validate:"required,min=1,dive,required"`
	// Exclude are globs removing files selected by Inputs.
	Exclude []string `yaml:"exclude" validate:"dive,required"`
	// Output is the directory that receives the generated files.
	Output string `yaml:"output" validate:"required"`
	// NotifyMethod is the helper called by generated setters.
	NotifyMethod string `yaml:"notifyMethod" validate:"required,csidentifier"`
	// EmbedMarker repeats the marker declaration in every generated class.
	EmbedMarker bool `yaml:"embedMarker"`
	// ImplicitMarker adds the marker declaration to the inputs.
	ImplicitMarker bool `yaml:"implicitMarker"`
	// ImplicitUsings turns on the implicit global usings of SDK-style
	// projects.
	ImplicitUsings bool `yaml:"implicitUsings"`
	// GlobalUsings are namespaces imported into every file.
	GlobalUsings []string `yaml:"globalUsings,omitempty" validate:"dive,required"`
	// References are metadata names of external types, or "Namespace.*"
	// wildcards, known in addition to the built-in catalog.
	References []string `yaml:"references,omitempty" validate:"dive,required"`
	// MaxParallelism bounds the number of files parsed at once. Zero picks
	// a default based on the number of CPUs.
	MaxParallelism int `yaml:"maxParallelism" validate:"gte=0"`
}

// Default returns the configuration used when a project has no
// configuration file.
func Default() Config {
	return Config{
		Inputs:         []string{"**/*.cs"},
		Exclude:        []string{"**/bin/**", "**/obj/**", "**/*.g.cs"},
		Output:         "Generated",
		NotifyMethod:   render.DefaultNotifyMethod,
		ImplicitMarker: true,
		ImplicitUsings: true,
	}
}

// Load reads the configuration file at path. Settings missing from the
// file keep their default values. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the path of the configuration file in dir, if there is one.
func Find(dir string) (string, bool) {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Marshal encodes cfg as a YAML document.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks that every setting has an acceptable value.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "csidentifier":
		return fmt.Sprintf("%s: %q is not a C# identifier", field, fe.Value())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s fails %q", field, fe.Tag())
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML keys.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("csidentifier", func(fl validator.FieldLevel) bool {
		return cases.IsIdentifier(fl.Field().String())
	})
	return v
}
