package types

import (
	"fmt"
	"strings"
)

// Service continuity modes of AppCharcs.ServiceCont.
const (
	ServiceContinuityNotRequired uint32 = 0
	ServiceContinuityRequired    uint32 = 1
)

// AppCharcs describes the system resources consumed by an application.
type AppCharcs struct {
	// Maximum memory in MB.
	Memory *uint32 `json:"memory,omitempty"`
	// Maximum storage in MB.
	Storage *uint32 `json:"storage,omitempty"`
	// Target round trip time in milliseconds.
	Latency *uint32 `json:"latency,omitempty"`
	// Required bandwidth in kbit/s.
	Bandwidth   *uint32 `json:"bandwidth,omitempty"`
	ServiceCont *uint32 `json:"serviceCont,omitempty"`
}

// AppInfo is the descriptor of an application in the catalog.
type AppInfo struct {
	AppDId         string                `json:"appDId"`
	AppName        string                `json:"appName"`
	AppProvider    string                `json:"appProvider"`
	AppSoftVersion string                `json:"appSoftVersion"`
	AppDVersion    string                `json:"appDVersion"`
	AppDescription string                `json:"appDescription"`
	AppLocation    []LocationConstraints `json:"appLocation,omitempty"`
	AppCharcs      *AppCharcs            `json:"appCharcs,omitempty"`
}

// VendorSpecificExt carries vendor specific information.
type VendorSpecificExt struct {
	VendorID string `json:"vendorId"`
}

// AppListEntry is one element of an ApplicationList.
type AppListEntry struct {
	AppInfo           AppInfo            `json:"appInfo"`
	VendorSpecificExt *VendorSpecificExt `json:"vendorSpecificExt,omitempty"`
}

// ApplicationList is the message returned to device applications.
type ApplicationList struct {
	AppList []AppListEntry `json:"appList"`
}

// AppListFilter holds the query criteria of GET app_list. Every string
// field is a comma-separated set of accepted values; empty matches all.
type AppListFilter struct {
	AppName        string  `form:"appName" json:"appName,omitempty"`
	AppProvider    string  `form:"appProvider" json:"appProvider,omitempty"`
	AppSoftVersion string  `form:"appSoftVersion" json:"appSoftVersion,omitempty"`
	VendorID       string  `form:"vendorId" json:"vendorId,omitempty"`
	ServiceCont    *uint32 `form:"serviceCont" json:"serviceCont,omitempty"`
}

// Validate checks serviceCont.
func (a *AppCharcs) Validate() error {
	var c checker
	c.serviceCont(a.ServiceCont)
	return c.result()
}

// Validate checks the descriptor fields and its nested elements.
func (a *AppInfo) Validate() error {
	var c checker
	c.required("appDId", a.AppDId)
	c.maxLen("appName", a.AppName, MaxShortLength)
	c.maxLen("appProvider", a.AppProvider, MaxShortLength)
	c.maxLen("appSoftVersion", a.AppSoftVersion, MaxShortLength)
	c.maxLen("appDVersion", a.AppDVersion, MaxShortLength)
	c.maxLen("appDescription", a.AppDescription, MaxDescriptionLength)
	for i := range a.AppLocation {
		c.child(&a.AppLocation[i])
	}
	if a.AppCharcs != nil {
		c.child(a.AppCharcs)
	}
	return c.result()
}

// Validate checks vendorId.
func (v *VendorSpecificExt) Validate() error {
	var c checker
	c.maxLen("vendorId", v.VendorID, MaxShortLength)
	return c.result()
}

func (e *AppListEntry) Validate() error {
	var c checker
	c.child(&e.AppInfo)
	if e.VendorSpecificExt != nil {
		c.child(e.VendorSpecificExt)
	}
	return c.result()
}

func (l *ApplicationList) Validate() error {
	var c checker
	for i := range l.AppList {
		c.child(&l.AppList[i])
	}
	return c.result()
}

// Validate applies the descriptor rules to every accepted value.
func (f *AppListFilter) Validate() error {
	var c checker
	for _, field := range []struct {
		name, value string
	}{
		{"appName", f.AppName},
		{"appProvider", f.AppProvider},
		{"appSoftVersion", f.AppSoftVersion},
		{"vendorId", f.VendorID},
	} {
		for _, v := range SplitSet(field.value) {
			c.maxLen(field.name, v, MaxShortLength)
		}
	}
	c.serviceCont(f.ServiceCont)
	return c.result()
}

// SplitSet splits a comma-separated set of values. Members are trimmed and
// empty members dropped; a set without members yields nil.
func SplitSet(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (a *AppCharcs) String() string {
	continuity := "not specified"
	if a.ServiceCont != nil {
		switch *a.ServiceCont {
		case ServiceContinuityNotRequired:
			continuity = "not required"
		case ServiceContinuityRequired:
			continuity = "required"
		default:
			continuity = "invalid value"
		}
	}
	return fmt.Sprintf("memory: %d MB, storage: %d MB, latency: %d ms, bandwidth: %d kb/s, continuity %s",
		deref(a.Memory), deref(a.Storage), deref(a.Latency), deref(a.Bandwidth), continuity)
}

func (e *AppListEntry) String() string {
	s := fmt.Sprintf("appDId: %s, appName: %s, appProvider: %s, appSoftVersion: %s, appDVersion: %s",
		e.AppInfo.AppDId, e.AppInfo.AppName, e.AppInfo.AppProvider, e.AppInfo.AppSoftVersion, e.AppInfo.AppDVersion)
	if e.VendorSpecificExt != nil {
		s += ", vendorId: " + e.VendorSpecificExt.VendorID
	}
	return s
}

func deref(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}
