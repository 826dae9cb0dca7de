package types

import (
	"reflect"

	"github.com/GriffinCanCode/lcmp/internal/shared/id"
)

// DefaultAppDVersion is used by RequestFromNameProvider.
const DefaultAppDVersion = "1.0"

// UserAppInstanceInfo identifies one instantiated user application.
// Assigned by the LCMP, never supplied by the device application.
type UserAppInstanceInfo struct {
	AppInstanceID *string              `json:"appInstanceId,omitempty"`
	ReferenceURI  *string              `json:"referenceURI,omitempty"`
	AppLocation   *LocationConstraints `json:"appLocation,omitempty"`
}

// RequiredAppInfo describes the application requested in an AppContext.
type RequiredAppInfo struct {
	// Present only when instantiating an application of the catalog.
	AppDId              *string               `json:"appDId,omitempty"`
	AppName             string                `json:"appName"`
	AppProvider         string                `json:"appProvider"`
	AppSoftVersion      *string               `json:"appSoftVersion,omitempty"`
	AppDVersion         string                `json:"appDVersion"`
	AppDescription      *string               `json:"appDescription,omitempty"`
	UserAppInstanceInfo []UserAppInstanceInfo `json:"userAppInstanceInfo"`
	// Present only when AppDId is absent.
	AppPackageSource *string `json:"appPackageSource,omitempty"`
}

// AppContext is an instantiation request for an application on behalf of
// a device application.
type AppContext struct {
	// Assigned by the LCMP on creation.
	ContextID         *string `json:"contextId,omitempty"`
	AssociateDevAppID string  `json:"associateDevAppId"`
	// The only field that can change after creation.
	CallbackReference    *string         `json:"callbackReference,omitempty"`
	AppLocationUpdates   bool            `json:"appLocationUpdates"`
	AppAutoInstantiation bool            `json:"appAutoInstantiation"`
	AppInfo              RequiredAppInfo `json:"appInfo"`
}

// ContextIDList is returned when listing the active contexts.
type ContextIDList struct {
	ContextIDs []string `json:"contextIds"`
}

// RequestFromNameProvider builds a minimal creation request for the given
// application. An empty associateDevAppID is replaced by a generated one.
func RequestFromNameProvider(appName, appProvider, associateDevAppID string) *AppContext {
	if associateDevAppID == "" {
		associateDevAppID = id.Default().GenerateWithPrefix(id.DevAppPrefix)
	}
	return &AppContext{
		AssociateDevAppID: associateDevAppID,
		AppInfo: RequiredAppInfo{
			AppName:     appName,
			AppProvider: appProvider,
			AppDVersion: DefaultAppDVersion,
		},
	}
}

func (u *UserAppInstanceInfo) Validate() error {
	var c checker
	if u.AppLocation != nil {
		c.child(u.AppLocation)
	}
	return c.result()
}

// Validate checks the application fields and the instance list.
func (r *RequiredAppInfo) Validate() error {
	var c checker
	c.optMaxLen("appDId", r.AppDId, MaxShortLength)
	c.required("appName", r.AppName)
	c.maxLen("appName", r.AppName, MaxShortLength)
	c.required("appProvider", r.AppProvider)
	c.maxLen("appProvider", r.AppProvider, MaxShortLength)
	c.optMaxLen("appSoftVersion", r.AppSoftVersion, MaxShortLength)
	c.required("appDVersion", r.AppDVersion)
	c.maxLen("appDVersion", r.AppDVersion, MaxShortLength)
	c.optMaxLen("appDescription", r.AppDescription, MaxDescriptionLength)
	if r.AppDId != nil && r.AppPackageSource != nil {
		c.fail("appPackageSource must be absent when appDId is present")
	}
	for i := range r.UserAppInstanceInfo {
		c.child(&r.UserAppInstanceInfo[i])
	}
	return c.result()
}

// Validate checks the structure of the context.
func (a *AppContext) Validate() error {
	var c checker
	c.optMaxLen("contextId", a.ContextID, MaxShortLength)
	c.required("associateDevAppId", a.AssociateDevAppID)
	c.maxLen("associateDevAppId", a.AssociateDevAppID, MaxShortLength)
	c.child(&a.AppInfo)
	return c.result()
}

// ValidRequest validates a as a creation request: on top of Validate, the
// context ID must be absent and no instance info may be supplied.
func (a *AppContext) ValidRequest() error {
	var c checker
	c.child(a)
	if a.ContextID != nil {
		c.fail("contextId must be absent in a request")
	}
	if len(a.AppInfo.UserAppInstanceInfo) > 0 {
		c.fail("userAppInstanceInfo must be empty in a request")
	}
	return c.result()
}

// Clone returns a deep copy of a. Empty slices are normalized to nil.
func (a *AppContext) Clone() *AppContext {
	if a == nil {
		return nil
	}
	out := *a
	out.ContextID = cloneString(a.ContextID)
	out.CallbackReference = cloneString(a.CallbackReference)
	out.AppInfo = a.AppInfo.clone()
	return &out
}

// EqualExceptCallback reports whether a and b are structurally equal when
// callbackReference is ignored. Nil and empty lists compare equal.
func (a *AppContext) EqualExceptCallback(b *AppContext) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := a.Clone(), b.Clone()
	x.CallbackReference, y.CallbackReference = nil, nil
	return reflect.DeepEqual(x, y)
}

func (r RequiredAppInfo) clone() RequiredAppInfo {
	out := r
	out.AppDId = cloneString(r.AppDId)
	out.AppSoftVersion = cloneString(r.AppSoftVersion)
	out.AppDescription = cloneString(r.AppDescription)
	out.AppPackageSource = cloneString(r.AppPackageSource)
	out.UserAppInstanceInfo = nil
	for _, u := range r.UserAppInstanceInfo {
		out.UserAppInstanceInfo = append(out.UserAppInstanceInfo, UserAppInstanceInfo{
			AppInstanceID: cloneString(u.AppInstanceID),
			ReferenceURI:  cloneString(u.ReferenceURI),
			AppLocation:   u.AppLocation.clone(),
		})
	}
	return out
}

func (l *LocationConstraints) clone() *LocationConstraints {
	if l == nil {
		return nil
	}
	out := &LocationConstraints{CountryCode: cloneString(l.CountryCode)}
	if len(l.CivicAddressElement) > 0 {
		out.CivicAddressElement = append([]CivicAddressElement(nil), l.CivicAddressElement...)
	}
	if l.Area != nil {
		area := &Polygon{}
		for _, ring := range l.Area.Coordinates {
			var points [][]float64
			for _, point := range ring {
				points = append(points, append([]float64(nil), point...))
			}
			area.Coordinates = append(area.Coordinates, points)
		}
		out.Area = area
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
