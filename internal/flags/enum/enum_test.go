package enum

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("panics with empty options", func(t *testing.T) {
		assert.Panics(t, func() {
			New()
		})
	})

	t.Run("defaults to the first option", func(t *testing.T) {
		flag := New("table", "yaml")
		assert.Equal(t, "table", flag.String())
		assert.Equal(t, "enum", flag.Type())
	})
}

func TestFlagSet(t *testing.T) {
	flag := New("table", "yaml")
	require.NoError(t, flag.Set("yaml"))
	assert.Equal(t, "yaml", flag.String())

	err := flag.Set("json")
	assert.EqualError(t, err, "must be one of table, yaml")
	assert.Equal(t, "yaml", flag.String())
}

func TestGet(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Var(fs, "output", []string{"table", "yaml"}, "output format")
	fs.String("plain", "", "not an enum")

	require.NoError(t, fs.Parse([]string{"--output", "yaml"}))
	value, err := Get(fs, "output")
	require.NoError(t, err)
	assert.Equal(t, "yaml", value)

	_, err = Get(fs, "missing")
	assert.Error(t, err)
	_, err = Get(fs, "plain")
	assert.Error(t, err)

	assert.Error(t, fs.Parse([]string{"--output", "json"}))
}
