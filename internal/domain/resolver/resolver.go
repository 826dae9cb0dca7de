// Package resolver maps an application descriptor identifier to the
// reference URI returned to the device application.
package resolver

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/lcmp/internal/shared/codec"
	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
)

// Resolver returns the reference URI for an optional appDId.
type Resolver interface {
	Resolve(appDId *string) (string, error)
}

// Single returns the same URI for every resolution.
type Single struct {
	uri string
}

// NewSingle creates a Single resolver.
func NewSingle(uri string) *Single {
	return &Single{uri: uri}
}

// Resolve always returns the configured URI.
func (s *Single) Resolve(*string) (string, error) {
	return s.uri, nil
}

// Table looks the appDId up in a mapping, falling back to an optional
// default URI.
type Table struct {
	byAppDId map[string]string
	fallback *string
}

// NewTable creates a Table resolver. A nil fallback makes unknown appDIds
// fail.
func NewTable(byAppDId map[string]string, fallback *string) *Table {
	m := make(map[string]string, len(byAppDId))
	for k, v := range byAppDId {
		m[k] = v
	}
	return &Table{byAppDId: m, fallback: fallback}
}

// Resolve returns the mapped URI, then the default, else ResolutionFailed.
func (t *Table) Resolve(appDId *string) (string, error) {
	if appDId != nil {
		if uri, ok := t.byAppDId[*appDId]; ok {
			return uri, nil
		}
	}
	if t.fallback != nil {
		return *t.fallback, nil
	}
	return "", problems.ResolutionFailed(appDId)
}

// Mapping is one appDId to URI association of a TableConfig.
type Mapping struct {
	AppDId       string `json:"appdid"`
	ReferenceURI string `json:"reference_uri"`
}

// TableConfig is the file layout of a table resolver and its store bound.
type TableConfig struct {
	MaxContexts         int       `json:"max_contexts"`
	DefaultReferenceURI *string   `json:"default_reference_uri,omitempty"`
	Mapping             []Mapping `json:"mapping"`
}

// Validate checks the bound and the mapping entries.
func (c *TableConfig) Validate() error {
	if c.MaxContexts < 0 {
		return fmt.Errorf("invalid max_contexts: %d", c.MaxContexts)
	}
	for _, m := range c.Mapping {
		if m.AppDId == "" || m.ReferenceURI == "" {
			return errors.New("mapping entries need both appdid and reference_uri")
		}
	}
	if c.DefaultReferenceURI != nil && *c.DefaultReferenceURI == "" {
		return errors.New("empty default_reference_uri")
	}
	return nil
}

// Resolver builds the Table described by c.
func (c *TableConfig) Resolver() *Table {
	byAppDId := make(map[string]string, len(c.Mapping))
	for _, m := range c.Mapping {
		byAppDId[m.AppDId] = m.ReferenceURI
	}
	return NewTable(byAppDId, c.DefaultReferenceURI)
}

// LoadTableConfig reads a TableConfig from a JSON, YAML or TOML file.
func LoadTableConfig(path string) (*TableConfig, error) {
	var cfg TableConfig
	if err := codec.ReadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("could not read resolver table: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resolver table %s: %w", path, err)
	}
	return &cfg, nil
}
