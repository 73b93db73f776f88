package command

import (
	"bytes"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reactiveobject/reactivegen"
	"github.com/reactiveobject/reactivegen/descriptor"
	"github.com/reactiveobject/reactivegen/internal/flags/enum"
)

const (
	outputFlag  = "output"
	outputTable = "table"
	outputYAML  = "yaml"
)

func newList() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List the classes and properties that would be generated",
		Long: `List shows every class of the project in dir (default: the working
directory) that has marked fields, together with the properties generated
for it. Nothing is written.`,
		Example: `  reactivegen list
  reactivegen list ./src/App --output yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}
	enum.Var(cmd.Flags(), outputFlag, []string{outputTable, outputYAML}, "output format")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	format, err := enum.Get(cmd.Flags(), outputFlag)
	if err != nil {
		return err
	}
	files, err := p.inputs()
	if err != nil {
		return err
	}
	diags := newDiagnostics(cmd.ErrOrStderr(), p.dir)
	classes, err := p.generator(diags.reporter()).Describe(cmd.Context(), files...)
	if err != nil {
		return diags.failure(err)
	}

	var data []byte
	switch format {
	case outputYAML:
		data, err = encodeClassesAsYAML(classes)
	default:
		data = encodeClassesAsTable(classes)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func encodeClassesAsTable(classes []descriptor.Class) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Class", "Property", "Type", "Field"})
	for _, c := range classes {
		name := c.FullName()
		if params := c.TypeParameters(); len(params) > 0 {
			name += "<" + strings.Join(params, ", ") + ">"
		}
		for _, prop := range c.Properties() {
			t.AppendRow(table.Row{name, prop.Name(), prop.Type(), prop.FieldName()})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}

type classOutput struct {
	Class          string           `yaml:"class"`
	Namespace      string           `yaml:"namespace,omitempty"`
	Accessibility  string           `yaml:"accessibility"`
	TypeParameters []string         `yaml:"typeParameters,omitempty"`
	Artifact       string           `yaml:"artifact"`
	Properties     []propertyOutput `yaml:"properties"`
}

type propertyOutput struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Field string `yaml:"field"`
}

func encodeClassesAsYAML(classes []descriptor.Class) ([]byte, error) {
	out := make([]classOutput, 0, len(classes))
	for _, c := range classes {
		co := classOutput{
			Class:          c.Name(),
			Namespace:      c.Namespace(),
			Accessibility:  c.Accessibility().String(),
			TypeParameters: c.TypeParameters(),
			Artifact:       reactivegen.ArtifactName(c),
		}
		for _, prop := range c.Properties() {
			co.Properties = append(co.Properties, propertyOutput{
				Name:  prop.Name(),
				Type:  prop.Type(),
				Field: prop.FieldName(),
			})
		}
		out = append(out, co)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

