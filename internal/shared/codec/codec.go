// Package codec reads and writes the LCMP bootstrap files (catalog and
// resolver table) in JSON, YAML or TOML.
//
// The messages only carry json tags, so YAML and TOML documents are
// converted to JSON first and decoded with sonic.
package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Format is a file serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf picks the format from the file extension. Unknown extensions
// are read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	default:
		return JSON
	}
}

// Decode parses data in the given format into v.
func Decode(format Format, data []byte, v interface{}) error {
	var err error
	switch format {
	case YAML:
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return fmt.Errorf("YAML parse error: %w", err)
		}
	case TOML:
		var parsed map[string]interface{}
		if err = toml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("TOML parse error: %w", err)
		}
		if data, err = sonic.Marshal(parsed); err != nil {
			return fmt.Errorf("TOML conversion error: %w", err)
		}
	case JSON:
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("JSON parse error: %w", err)
	}
	return nil
}

// Encode serializes v in the given format.
func Encode(format Format, v interface{}) ([]byte, error) {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("JSON encoding error: %w", err)
	}

	switch format {
	case JSON:
		return data, nil
	case YAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("YAML encoding error: %w", err)
		}
		return out, nil
	case TOML:
		var generic map[string]interface{}
		if err := sonic.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("TOML encoding error: %w", err)
		}
		out, err := toml.Marshal(dropNulls(generic))
		if err != nil {
			return nil, fmt.Errorf("TOML encoding error: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ReadFile decodes the file at path into v, choosing the format from the
// extension.
func ReadFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Decode(FormatOf(path), data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteFile encodes v into the file at path.
func WriteFile(path string, v interface{}) error {
	data, err := Encode(FormatOf(path), v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TOML has no null.
func dropNulls(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(val)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = dropNulls(t[i])
		}
		return t
	default:
		return v
	}
}
