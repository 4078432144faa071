package keymap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/keycmd/internal/input/key"
)

// ImportVSCode reads a VS Code style keybindings.json array:
//
//	[
//	  { "key": "ctrl+shift+p", "command": "workbench.action.showCommands" },
//	  { "key": "ctrl+k ctrl+c", "command": "editor.action.addCommentLine" }
//	]
//
// Whole-line // comments are allowed. Entries for the same command are
// merged. Removal entries ("-command") and entries without a key or command
// are skipped; "when" clauses are ignored.
func ImportVSCode(r io.Reader) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keybindings: %w", err)
	}
	return importVSCode("<reader>", data)
}

func importVSCode(source string, data []byte) (*Keymap, error) {
	text := string(stripLineComments(data))
	if !gjson.Valid(text) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.Parse(text)
	if !root.IsArray() {
		return nil, &ParseError{Path: source, Message: "expected a JSON array of keybindings"}
	}

	km := NewKeymap("")
	index := make(map[string]int)

	root.ForEach(func(_, entry gjson.Result) bool {
		raw := strings.TrimSpace(entry.Get("key").String())
		command := entry.Get("command").String()
		if raw == "" || command == "" || strings.HasPrefix(command, "-") {
			return true
		}

		i, ok := index[command]
		if !ok {
			i = len(km.Bindings)
			index[command] = i
			km.Bindings = append(km.Bindings, Binding{Action: command})
		}
		b := &km.Bindings[i]

		chords := strings.Fields(raw)
		if len(chords) > 1 {
			b.Sequence = key.ParseSequence(raw).String()
			return true
		}
		b.Keys = append(b.Keys, key.Normalize(raw))
		return true
	})

	return km, nil
}

// stripLineComments removes lines whose first non-blank characters are //.
func stripLineComments(data []byte) []byte {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("//")) {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
