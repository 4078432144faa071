package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const tomlKeymap = `
name = "user"

[[bindings]]
action = "editor.save"
keys = ["ctrl+s", "cmd+s"]

[[bindings]]
action = "editor.comment"
sequence = "ctrl+k ctrl+c"
`

const yamlKeymap = `
bindings:
  - action: editor.save
    keys: ["ctrl+s", "cmd+s"]
  - action: editor.comment
    sequence: ctrl+k ctrl+c
`

const jsonKeymap = `{
  "bindings": [
    {"action": "editor.save", "keys": ["ctrl+s", "cmd+s"]},
    {"action": "editor.comment", "sequence": "ctrl+k ctrl+c"}
  ]
}`

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"user.toml": tomlKeymap,
		"user.yaml": yamlKeymap,
		"user.yml":  yamlKeymap,
		"user.json": jsonKeymap,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name, content)

			km, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "user", km.Name)
			assert.Equal(t, path, km.Source)
			require.Len(t, km.Bindings, 2)
			assert.Equal(t, "editor.save", km.Bindings[0].Action)
			assert.Equal(t, []string{"ctrl+s", "cmd+s"}, km.Bindings[0].Keys)
			assert.Equal(t, "ctrl+k ctrl+c", km.Bindings[1].Sequence)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(writeFile(t, dir, "keys.ini", "x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeFile(t, dir, "broken.toml", "[[bindings]\naction ="))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Path, "broken.toml")

	_, err = LoadFile(writeFile(t, dir, "invalid.yaml", "bindings:\n  - keys: [ctrl+s]\n"))
	assert.ErrorIs(t, err, ErrInvalidBinding)
}

func TestLoadFilesMerges(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.toml", tomlKeymap)
	second := writeFile(t, dir, "b.yaml", "bindings:\n  - action: editor.save\n    keys: [f2]\n")

	km, err := LoadFiles(first, second)
	require.NoError(t, err)
	require.Len(t, km.Bindings, 3)
	assert.Equal(t, []string{"f2"}, km.Bindings[2].Keys)
}

func TestLoadReader(t *testing.T) {
	km, err := LoadReader(strings.NewReader(yamlKeymap), FormatYAML)
	require.NoError(t, err)
	assert.Len(t, km.Bindings, 2)

	_, err = LoadReader(strings.NewReader("x"), Format("ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

const vscodeKeybindings = `// Place your key bindings in this file
[
  { "key": "ctrl+shift+p", "command": "palette.show" },
  // mac
  { "key": "cmd+shift+p", "command": "palette.show" },
  { "key": "ctrl+k ctrl+c", "command": "edit.comment", "when": "editorTextFocus" },
  { "key": "ctrl+x", "command": "-edit.cut" },
  { "command": "no.key" }
]`

func TestImportVSCode(t *testing.T) {
	km, err := ImportVSCode(strings.NewReader(vscodeKeybindings))
	require.NoError(t, err)
	assert.Empty(t, km.Name)

	require.Len(t, km.Bindings, 2)
	assert.Equal(t, "palette.show", km.Bindings[0].Action)
	assert.Equal(t, []string{"Ctrl+Shift+P", "Shift+Meta+P"}, km.Bindings[0].Keys)
	assert.Equal(t, "edit.comment", km.Bindings[1].Action)
	assert.Equal(t, "Ctrl+K Ctrl+C", km.Bindings[1].Sequence)
	assert.Nil(t, km.Bindings[1].Keys)
}

func TestImportVSCodeFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "keybindings.json", vscodeKeybindings)

	km, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keybindings", km.Name)
	assert.Len(t, km.Bindings, 2)
}

func TestImportVSCodeErrors(t *testing.T) {
	_, err := ImportVSCode(strings.NewReader(`[{"key": }`))
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = ImportVSCode(strings.NewReader(`{"key": "ctrl+s"}`))
	assert.ErrorAs(t, err, &perr)
}
