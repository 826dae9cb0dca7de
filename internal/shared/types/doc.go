// Package types provides the ETSI GS MEC 016 messages exchanged between a
// device application and the LCMP.
//
// Catalog:
//   - ApplicationList, AppListEntry: the answer to GET app_list
//   - AppInfo, AppCharcs, VendorSpecificExt: one application descriptor
//   - AppListFilter: the query criteria of GET app_list
//
// Contexts:
//   - AppContext: an instantiation request and its stored state
//   - RequiredAppInfo, UserAppInstanceInfo: the application part of a context
//
// Location:
//   - LocationConstraints, CivicAddressElement, Polygon
//
// Every message implements Validator. A parent validates all of its children
// and reports every failure at once as a single problems.Error of kind
// validation_failed, reasons joined with ";":
//
//	if err := req.ValidRequest(); err != nil {
//	    // err.Error() == "appName is too long;contextId must be absent in a request"
//	}
package types
