package applist

import (
	"github.com/GriffinCanCode/lcmp/internal/shared/types"
)

// newMatcher compiles filter into a predicate. Fields combine with AND,
// values within a field with OR; an empty field matches everything.
func newMatcher(filter *types.AppListFilter) func(*types.AppListEntry) bool {
	names := newSet(filter.AppName)
	providers := newSet(filter.AppProvider)
	versions := newSet(filter.AppSoftVersion)
	vendors := newSet(filter.VendorID)
	serviceCont := filter.ServiceCont

	return func(e *types.AppListEntry) bool {
		vendorID := ""
		if e.VendorSpecificExt != nil {
			vendorID = e.VendorSpecificExt.VendorID
		}
		return names.accepts(e.AppInfo.AppName) &&
			providers.accepts(e.AppInfo.AppProvider) &&
			versions.accepts(e.AppInfo.AppSoftVersion) &&
			vendors.accepts(vendorID) &&
			continuityMatches(serviceCont, e.AppInfo.AppCharcs)
	}
}

// Entries without AppCharcs never match a serviceCont criterion, whatever
// its value.
func continuityMatches(want *uint32, charcs *types.AppCharcs) bool {
	if want == nil {
		return true
	}
	return charcs != nil && charcs.ServiceCont != nil && *charcs.ServiceCont == *want
}

// set is nil for the wildcard.
type set map[string]struct{}

func newSet(value string) set {
	values := types.SplitSet(value)
	if values == nil {
		return nil
	}
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) accepts(value string) bool {
	if s == nil {
		return true
	}
	_, ok := s[value]
	return ok
}
