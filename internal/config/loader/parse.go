package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Parse parses data in the given format into a nested map. The path is
// used for error reporting only. An empty YAML or TOML document parses to
// an empty map.
func Parse(path string, format Format, data []byte) (map[string]any, error) {
	switch format {
	case FormatYAML:
		return parseYAML(path, data)
	case FormatTOML:
		return parseTOML(path, data)
	case FormatJSON:
		return parseJSON(path, data)
	default:
		return nil, fmt.Errorf("cannot parse %q format (file %s)", string(format), path)
	}
}

func parseYAML(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// goccy reports [line:column] inside the message itself.
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

func parseTOML(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

func parseJSON(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		if offset, ok := jsonErrorOffset(err); ok {
			perr.Line, perr.Column = positionAt(data, offset)
		}
		return nil, perr
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

func jsonErrorOffset(err error) (int64, bool) {
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		return serr.Offset, true
	}
	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) {
		return terr.Offset, true
	}
	return 0, false
}

// positionAt converts a byte offset into a 1-based line and column.
func positionAt(data []byte, offset int64) (line, column int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:offset]
	line = bytes.Count(head, []byte{'\n'}) + 1
	column = len(head) - bytes.LastIndexByte(head, '\n')
	return line, column
}

// ParseError represents an error while parsing a configuration file.
// Line and Column are 1-based and zero when the parser did not report a
// position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
