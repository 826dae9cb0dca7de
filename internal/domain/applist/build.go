package applist

import (
	"fmt"
	"strings"
)

// Catalog configuration values accepted by Build.
const (
	// static;file=<path of an ApplicationList file>
	StaticFilePrefix = "static;file="
	EmptyType        = "empty"
)

// Build creates a Catalog from a configuration string. A catalog file that
// cannot be loaded is not a build error: see LoadStatic.
func Build(value string) (Catalog, error) {
	switch {
	case strings.HasPrefix(value, StaticFilePrefix):
		path := strings.TrimPrefix(value, StaticFilePrefix)
		if path == "" {
			return nil, fmt.Errorf("invalid application list configuration %q: empty file name", value)
		}
		return LoadStatic(path), nil
	case value == EmptyType:
		return Empty{}, nil
	}
	return nil, fmt.Errorf("could not create the application list from %q", value)
}
