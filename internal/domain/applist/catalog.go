// Package applist answers the application list queries of device
// applications from a static catalog of application descriptors.
package applist

import (
	"github.com/GriffinCanCode/lcmp/internal/shared/codec"
	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
	"github.com/GriffinCanCode/lcmp/internal/shared/types"
)

// Catalog returns the descriptors matching a filter.
type Catalog interface {
	Query(filter *types.AppListFilter) (*types.ApplicationList, error)
	Status() error
}

// Static serves an immutable catalog. A catalog that failed to load keeps
// the error and fails every query with it.
type Static struct {
	list    []types.AppListEntry
	loadErr error
}

// NewStatic serves the entries of list. The entries are not copied and must
// not be modified afterwards.
func NewStatic(list *types.ApplicationList) *Static {
	s := &Static{}
	if list != nil {
		s.list = list.AppList
	}
	return s
}

// LoadStatic reads and validates a catalog file. Failures are recorded, not
// returned: the catalog then reports them on every Query and Status.
func LoadStatic(path string) *Static {
	var list types.ApplicationList
	if err := codec.ReadFile(path, &list); err != nil {
		return &Static{loadErr: err}
	}
	if err := list.Validate(); err != nil {
		return &Static{loadErr: err}
	}
	return NewStatic(&list)
}

// Query validates the filter and returns the matching entries, in catalog
// order.
func (s *Static) Query(filter *types.AppListFilter) (*types.ApplicationList, error) {
	if s.loadErr != nil {
		return nil, problems.CatalogUnavailable(s.loadErr)
	}
	if filter == nil {
		filter = &types.AppListFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	match := newMatcher(filter)
	out := &types.ApplicationList{AppList: []types.AppListEntry{}}
	for _, entry := range s.list {
		if match(&entry) {
			out.AppList = append(out.AppList, entry)
		}
	}
	return out, nil
}

// Status returns the load error, if any.
func (s *Static) Status() error {
	if s.loadErr != nil {
		return problems.CatalogUnavailable(s.loadErr)
	}
	return nil
}

// Len returns the number of catalog entries.
func (s *Static) Len() int {
	return len(s.list)
}

// Empty is a catalog with no entries.
type Empty struct{}

// Query validates the filter and returns an empty list.
func (Empty) Query(filter *types.AppListFilter) (*types.ApplicationList, error) {
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return nil, err
		}
	}
	return &types.ApplicationList{AppList: []types.AppListEntry{}}, nil
}

// Status always succeeds.
func (Empty) Status() error {
	return nil
}
