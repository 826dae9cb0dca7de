// Package appcontext keeps the application contexts created on behalf of
// device applications.
package appcontext

import (
	"sync"

	"github.com/GriffinCanCode/lcmp/internal/domain/resolver"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/logging"
	"github.com/GriffinCanCode/lcmp/internal/shared/id"
	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
	"github.com/GriffinCanCode/lcmp/internal/shared/types"
	"go.uber.org/zap"
)

// Operation names reported to the Recorder.
const (
	OpCreate = "create"
	OpDelete = "delete"
	OpGet    = "get"
	OpUpdate = "update"
)

// Store manages the life cycle of application contexts.
type Store interface {
	// NewContext admits req and returns the stored context, with the
	// assigned contextId and instance info. req is left untouched.
	NewContext(req *types.AppContext) (*types.AppContext, error)
	DelContext(contextID string) error
	GetContext(contextID string) (*types.AppContext, error)
	// UpdateContext replaces the callbackReference of the stored context.
	// Every other field of req must match the stored context.
	UpdateContext(req *types.AppContext) error
	ListContexts() []string
	// Len returns the number of active contexts.
	Len() int
	Status() error
}

// Recorder receives the store metrics.
type Recorder interface {
	ContextCreated()
	ContextsActive(n int)
	ContextOperation(operation string, err error)
}

// Manager is the in-memory Store. Logging happens after mu is released.
type Manager struct {
	mu          sync.Mutex
	contexts    map[string]*types.AppContext // Protected by mu
	maxContexts int
	resolver    resolver.Resolver
	ids         id.Issuer
	metrics     Recorder
	logger      *logging.Logger
}

// NewManager creates an empty store admitting at most maxContexts contexts.
func NewManager(maxContexts int, r resolver.Resolver, ids id.Issuer) *Manager {
	if ids == nil {
		ids = id.Default()
	}
	return &Manager{
		contexts:    make(map[string]*types.AppContext),
		maxContexts: maxContexts,
		resolver:    r,
		ids:         ids,
		logger:      logging.NewNop(),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics Recorder) *Manager {
	m.metrics = metrics
	return m
}

// WithLogger sets the logger of the manager
func (m *Manager) WithLogger(logger *logging.Logger) *Manager {
	m.logger = logger.Component("appcontext")
	return m
}

// MaxContexts returns the admission bound.
func (m *Manager) MaxContexts() int {
	return m.maxContexts
}

// NewContext checks capacity first, then validates the request, resolves the
// reference URI and stores a copy with the assigned identifiers.
func (m *Manager) NewContext(req *types.AppContext) (*types.AppContext, error) {
	m.mu.Lock()
	created, err := m.admit(req)
	m.record(OpCreate, err)
	if err == nil && m.metrics != nil {
		m.metrics.ContextCreated()
		m.metrics.ContextsActive(len(m.contexts))
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	m.logger.Debug("context created",
		zap.String("context_id", *created.ContextID),
		zap.String("associate_dev_app_id", created.AssociateDevAppID),
		zap.String("reference_uri", *created.AppInfo.UserAppInstanceInfo[0].ReferenceURI))

	return created, nil
}

func (m *Manager) admit(req *types.AppContext) (*types.AppContext, error) {
	if len(m.contexts) >= m.maxContexts {
		return nil, problems.CapacityExceeded(m.maxContexts)
	}
	if req == nil {
		return nil, problems.New(problems.KindValidation, "empty request")
	}
	if err := req.ValidRequest(); err != nil {
		return nil, err
	}

	uri, err := m.resolver.Resolve(req.AppInfo.AppDId)
	if err != nil {
		return nil, err
	}

	contextID := m.ids.ContextID()
	instanceID := m.ids.AppInstanceID()

	created := req.Clone()
	created.ContextID = &contextID
	created.AppInfo.UserAppInstanceInfo = []types.UserAppInstanceInfo{{
		AppInstanceID: &instanceID,
		ReferenceURI:  &uri,
	}}

	m.contexts[contextID] = created
	return created.Clone(), nil
}

// DelContext removes a context.
func (m *Manager) DelContext(contextID string) error {
	m.mu.Lock()
	var err error
	if _, ok := m.contexts[contextID]; ok {
		delete(m.contexts, contextID)
	} else {
		err = problems.NotFound(contextID)
	}
	m.record(OpDelete, err)
	if err == nil && m.metrics != nil {
		m.metrics.ContextsActive(len(m.contexts))
	}
	m.mu.Unlock()

	if err == nil {
		m.logger.Debug("context deleted", zap.String("context_id", contextID))
	}
	return err
}

// GetContext returns a copy of the stored context.
func (m *Manager) GetContext(contextID string) (*types.AppContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.contexts[contextID]
	if !ok {
		err := problems.NotFound(contextID)
		m.record(OpGet, err)
		return nil, err
	}
	m.record(OpGet, nil)
	return stored.Clone(), nil
}

// UpdateContext applies a callbackReference change, all or nothing.
func (m *Manager) UpdateContext(req *types.AppContext) error {
	m.mu.Lock()
	err := m.update(req)
	m.record(OpUpdate, err)
	m.mu.Unlock()

	if err == nil {
		m.logger.Debug("context updated", zap.String("context_id", *req.ContextID))
	}
	return err
}

func (m *Manager) update(req *types.AppContext) error {
	if req == nil || req.ContextID == nil {
		return problems.NotSpecified()
	}
	contextID := *req.ContextID

	stored, ok := m.contexts[contextID]
	if !ok {
		return problems.NotFound(contextID)
	}
	if !stored.EqualExceptCallback(req) {
		return problems.Conflict(contextID)
	}

	var callback *string
	if req.CallbackReference != nil {
		v := *req.CallbackReference
		callback = &v
	}
	stored.CallbackReference = callback
	return nil
}

// ListContexts returns the IDs of all active contexts, in no particular order.
func (m *Manager) ListContexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.contexts))
	for contextID := range m.contexts {
		ids = append(ids, contextID)
	}
	return ids
}

// Len returns the number of active contexts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contexts)
}

// Status always succeeds: the store has no external dependency.
func (m *Manager) Status() error {
	return nil
}

func (m *Manager) record(operation string, err error) {
	if m.metrics != nil {
		m.metrics.ContextOperation(operation, err)
	}
}
