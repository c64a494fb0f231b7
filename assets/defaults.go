package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration, written to
// ~/.ask/config.yaml on first run.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultRulesYAML contains the embedded default danger rule table, used
// whenever no rules file exists on disk.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte
