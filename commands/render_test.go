package commands

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommandFlags(t *testing.T) {
	cmd := newRenderCmd(&options{})

	tests := []struct {
		flag         string
		defaultValue string
		shorthand    string
	}{
		{"output", "-", "o"},
		{"watch", "false", "w"},
		{"cursor", "0", ""},
		{"hover", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRenderToStdout(t *testing.T) {
	path := writeHistory(t, history)

	out, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `id="layer-py3-only"`)
	assert.Contains(t, out, `id="layer-idle"`)
	assert.NotContains(t, out, `class="guide"`)
}

func TestRenderToFile(t *testing.T) {
	path := writeHistory(t, history)
	output := filepath.Join(t.TempDir(), "out", "chart.svg")

	out, err := execute(t, "render", path, "-o", output, "--cursor", "450", "--hover", "idle")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `class="guide"`)
	assert.Contains(t, string(data), "2015-10-11")

	entries, err := os.ReadDir(filepath.Dir(output))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestRenderNormalized(t *testing.T) {
	path := writeHistory(t, history)

	out, err := execute(t, "render", path, "--normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		is      error
		msg     string
	}{
		{
			name:    "unknown category",
			content: history + "d4,2015-10-13 00:00:00 +0000,mystery,1\n",
			is:      model.ErrUnknownCategory,
		},
		{
			name:    "malformed record",
			content: history + "d4,2015-10-13 00:00:00 +0000,idle,many\n",
			is:      model.ErrMalformedRecord,
		},
		{
			name:    "watch needs an output file",
			content: history,
			args:    []string{"--watch"},
			msg:     "--watch requires an output file",
		},
		{
			name:    "invalid timezone",
			content: history,
			args:    []string{"--timezone", "Nowhere/Special"},
			msg:     "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeHistory(t, tt.content)
			_, err := execute(t, append([]string{"render", path}, tt.args...)...)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestRenderRequiresInput(t *testing.T) {
	_, err := execute(t, "render")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
