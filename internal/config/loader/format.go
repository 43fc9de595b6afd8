package loader

import (
	"path/filepath"
	"strings"
)

// Format identifies the on-disk syntax of a configuration file.
type Format string

// Formats the loader can structurally parse, plus the native tool formats
// it deliberately does not (those appear in source metadata only).
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatPHP  Format = "php"
	FormatNEON Format = "neon"
)

// Parseable reports whether documents in this format can be parsed into a
// nested map. PHP and NEON files belong to the external tools themselves
// and are never parsed here.
func (f Format) Parseable() bool {
	switch f {
	case FormatYAML, FormatTOML, FormatJSON:
		return true
	default:
		return false
	}
}

// DetectFormat derives the format from a file name. A trailing ".dist"
// suffix (phpstan-style distributed configs) is ignored.
func DetectFormat(path string) Format {
	name := strings.TrimSuffix(filepath.Base(path), ".dist")
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".php":
		return FormatPHP
	case ".neon":
		return FormatNEON
	default:
		return ""
	}
}
