package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a keymap file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat indicates a keymap file with an unknown extension.
var ErrUnsupportedFormat = errors.New("keymap: unsupported file format")

// ParseError represents an error while parsing a keymap file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile loads and validates a keymap file, choosing the format by
// extension.
func LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file: %w", err)
	}

	km, err := parse(path, format, data)
	if err != nil {
		return nil, err
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km.Source = path
	return km, nil
}

// LoadFiles loads every file in order and merges them; later files win.
func LoadFiles(paths ...string) (*Keymap, error) {
	merged := NewKeymap("merged")
	for _, path := range paths {
		km, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged = merged.Merge(km)
	}
	return merged, nil
}

// LoadReader loads and validates a keymap in the given format.
func LoadReader(r io.Reader, format Format) (*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}
	return parse("<reader>", format, data)
}

func parse(source string, format Format, data []byte) (*Keymap, error) {
	var km Keymap
	var err error

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &km)
	case FormatYAML:
		err = yaml.Unmarshal(data, &km)
	case FormatJSON:
		if isJSONArray(data) {
			return importVSCode(source, data)
		}
		err = json.Unmarshal(data, &km)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	if err := km.Validate(); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return &km, nil
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(stripLineComments(data))
	return len(trimmed) > 0 && trimmed[0] == '['
}
