package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `toml:"name" yaml:"name"`
	Count int    `toml:"count" yaml:"count"`
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"a.YAML", FormatYAML, false},
		{"dir/a.yml", FormatYAML, false},
		{"a.json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeKeepsExistingValues(t *testing.T) {
	v := sample{Name: "default", Count: 1}
	require.NoError(t, Decode(FormatTOML, "test", []byte(`count = 4`), &v))
	assert.Equal(t, sample{Name: "default", Count: 4}, v)

	require.NoError(t, Decode(FormatYAML, "test", []byte("name: yaml\n"), &v))
	assert.Equal(t, sample{Name: "yaml", Count: 4}, v)
}

func TestDecodeEmptyYAML(t *testing.T) {
	v := sample{Name: "kept"}
	require.NoError(t, Decode(FormatYAML, "empty", nil, &v))
	assert.Equal(t, "kept", v.Name)
}

func TestDecodeTOMLErrorPosition(t *testing.T) {
	var v sample
	err := Decode(FormatTOML, "bad.toml", []byte("name = \"x\"\ncount = = 1\n"), &v)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, pe.Error(), "bad.toml at line 2")
}

func TestDecodeFileMissing(t *testing.T) {
	var v sample
	found, err := DecodeFile(filepath.Join(t.TempDir(), "none.toml"), &v)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, os.WriteFile(path, []byte("count: 9\n"), 0o644))

	var v sample
	found, err := DecodeFile(path, &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 9, v.Count)
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader("KEYCMD_")
	l.environ = func() []string {
		return []string{
			"HOME=/home/u",
			"KEYCMD_PAGE_SIZE=3",
			"KEYCMD_LOGGING_MAX_BACKUPS=2",
			"KEYCMD_THEME_NAME=",
			"KEYCMD_ALIAS=x",
		}
	}
	l.AddMapping("KEYCMD_ALIAS", "logging.file")

	vars := l.Load()
	require.Len(t, vars, 4)
	assert.Equal(t, Variable{Name: "KEYCMD_ALIAS", Path: "logging.file", Value: "x"}, vars[0])
	assert.Equal(t, "logging.max_backups", vars[1].Path)
	assert.Equal(t, "page_size", vars[2].Path)
	assert.Equal(t, Variable{Name: "KEYCMD_THEME_NAME", Path: "theme_name", Value: ""}, vars[3])
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "YES", "on", "1"} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "No", "off", "0"} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a , ,b"))
	assert.Empty(t, SplitList(""))
}
