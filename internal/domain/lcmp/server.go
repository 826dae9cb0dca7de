// Package lcmp composes the application list and the application context
// servers into the state shared by the HTTP handlers.
package lcmp

import (
	"fmt"

	"github.com/GriffinCanCode/lcmp/internal/domain/appcontext"
	"github.com/GriffinCanCode/lcmp/internal/domain/applist"
	"github.com/GriffinCanCode/lcmp/internal/shared/id"
	"go.uber.org/multierr"
)

// Server owns the catalog and the context store for the process lifetime.
type Server struct {
	appList    applist.Catalog
	appContext appcontext.Store
}

// New composes an LCMP server.
func New(appList applist.Catalog, appContext appcontext.Store) *Server {
	return &Server{appList: appList, appContext: appContext}
}

// Build creates both servers from their configuration strings.
func Build(appListType, appContextType string, ids id.Issuer) (*Server, *appcontext.Manager, error) {
	catalog, err := applist.Build(appListType)
	if err != nil {
		return nil, nil, fmt.Errorf("application list: %w", err)
	}
	store, err := appcontext.Build(appContextType, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("application context: %w", err)
	}
	return New(catalog, store), store, nil
}

// AppList returns the catalog.
func (s *Server) AppList() applist.Catalog {
	return s.appList
}

// AppContext returns the context store.
func (s *Server) AppContext() appcontext.Store {
	return s.appContext
}

// Status reports the combined health of both servers.
func (s *Server) Status() error {
	return multierr.Combine(s.appList.Status(), s.appContext.Status())
}
