// Package config holds the engine configuration: dispatcher and palette
// timing, logging, and the keymap and plugin files to load.
//
// Configuration is resolved in three steps. Defaults are applied first,
// then the config file (TOML or YAML, chosen by extension) if it exists,
// then KEYCMD_* environment variables:
//
//	KEYCMD_SEQUENCE_TIMEOUT=1500ms
//	KEYCMD_PAGE_SIZE=10
//	KEYCMD_KEYMAP_FILES=~/.config/keycmd/keys.toml,./keys.yaml
//	KEYCMD_LOGGING_LEVEL=debug
//
// Durations are Go duration strings ("2s", "150ms"); a bare integer is read
// as milliseconds.
package config
