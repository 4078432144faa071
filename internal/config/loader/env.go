package loader

import (
	"os"
	"sort"
	"strings"
)

// EnvLoader reads prefixed environment variables as dotted config paths.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "KEYCMD_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "KEYCMD_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
		environ: os.Environ,
	}
}

// AddMapping maps an environment variable to a config path, overriding
// the derived name.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Variable is one prefixed environment variable.
type Variable struct {
	Name  string
	Path  string
	Value string
}

// Load returns every prefixed variable, sorted by name. Empty values are
// kept; an empty string is a valid setting.
func (l *EnvLoader) Load() []Variable {
	var vars []Variable
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		vars = append(vars, Variable{Name: name, Path: path, Value: value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

// envToPath converts KEYCMD_LOGGING_MAX_SIZE_MB to logging.max_size_mb.
// The first segment is the section when more than one remains.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, rest, ok := strings.Cut(name, "_")
	if !ok || !knownSections[section] {
		return name
	}
	return section + "." + rest
}

// knownSections are the config tables that group settings.
var knownSections = map[string]bool{
	"logging": true,
}

// ParseBool parses true/false, yes/no, on/off and 1/0.
func ParseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	default:
		return false, false
	}
}

// SplitList splits a comma or path-list separated value into its
// non-empty entries.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == os.PathListSeparator
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
