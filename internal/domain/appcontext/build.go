package appcontext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/lcmp/internal/domain/resolver"
	"github.com/GriffinCanCode/lcmp/internal/shared/id"
)

// Store configuration prefixes accepted by Build.
const (
	// single;<max_contexts>,<reference URI>
	SinglePrefix = "single;"
	// file;<path of a resolver.TableConfig>
	FilePrefix = "file;"
)

// Build creates a Manager from a configuration string.
func Build(value string, ids id.Issuer) (*Manager, error) {
	switch {
	case strings.HasPrefix(value, SinglePrefix):
		tokens := strings.Split(strings.TrimPrefix(value, SinglePrefix), ",")
		if len(tokens) != 2 {
			return nil, fmt.Errorf("invalid app context configuration %q: expected single;<max>,<uri>", value)
		}
		maxContexts, err := strconv.Atoi(tokens[0])
		if err != nil || maxContexts < 0 {
			return nil, fmt.Errorf("invalid maximum number of contexts %q", tokens[0])
		}
		if tokens[1] == "" {
			return nil, fmt.Errorf("invalid app context configuration %q: empty reference URI", value)
		}
		return NewManager(maxContexts, resolver.NewSingle(tokens[1]), ids), nil

	case strings.HasPrefix(value, FilePrefix):
		path := strings.TrimPrefix(value, FilePrefix)
		if path == "" {
			return nil, fmt.Errorf("invalid app context configuration %q: empty file name", value)
		}
		cfg, err := resolver.LoadTableConfig(path)
		if err != nil {
			return nil, err
		}
		return NewManager(cfg.MaxContexts, cfg.Resolver(), ids), nil
	}

	return nil, fmt.Errorf("could not create the app context store from %q", value)
}
