package appcontext

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/lcmp/internal/domain/resolver"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/logging"
	"github.com/GriffinCanCode/lcmp/internal/shared/id"
	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
	"github.com/GriffinCanCode/lcmp/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequentialIDs) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

func (s *sequentialIDs) ContextID() string     { return fmt.Sprintf("ctx%d", s.next()) }
func (s *sequentialIDs) AppInstanceID() string { return fmt.Sprintf("inst%d", s.next()) }

type fakeRecorder struct {
	created    int
	active     int
	operations map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{operations: make(map[string]int)}
}

func (r *fakeRecorder) ContextCreated()      { r.created++ }
func (r *fakeRecorder) ContextsActive(n int) { r.active = n }
func (r *fakeRecorder) ContextOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(problems.KindOf(err))
	}
	r.operations[operation+"/"+outcome]++
}

func strPtr(s string) *string { return &s }

func request() *types.AppContext {
	return types.RequestFromNameProvider("my_app_name", "my_app_provider", "dev-app-1")
}

func newTestManager(max int) *Manager {
	return NewManager(max, resolver.NewSingle("referenceURI"), &sequentialIDs{})
}

func TestNewContext(t *testing.T) {
	m := newTestManager(10)
	req := request()

	created, err := m.NewContext(req)
	require.NoError(t, err)

	require.NotNil(t, created.ContextID)
	require.Len(t, created.AppInfo.UserAppInstanceInfo, 1)
	info := created.AppInfo.UserAppInstanceInfo[0]
	assert.Equal(t, "referenceURI", *info.ReferenceURI)
	assert.NotEmpty(t, *info.AppInstanceID)
	assert.Nil(t, info.AppLocation)

	// The request is not modified.
	assert.Nil(t, req.ContextID)
	assert.Empty(t, req.AppInfo.UserAppInstanceInfo)
	assert.NoError(t, req.ValidRequest())

	stored, err := m.GetContext(*created.ContextID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)
}

func TestNewContextUsesDefaultIssuer(t *testing.T) {
	m := NewManager(1, resolver.NewSingle("uri"), nil)

	created, err := m.NewContext(request())
	require.NoError(t, err)
	require.Len(t, *created.ContextID, 32)
	_, err = hex.DecodeString(*created.ContextID)
	assert.NoError(t, err)
}

func TestNewContextRejectsInvalidRequest(t *testing.T) {
	m := newTestManager(10)
	req := request()
	req.ContextID = strPtr("not-empty-context-id")

	_, err := m.NewContext(req)
	require.Error(t, err)
	assert.True(t, problems.Is(err, problems.KindValidation))
	assert.Equal(t, 0, m.Len())

	_, err = m.NewContext(nil)
	assert.True(t, problems.Is(err, problems.KindValidation))
}

func TestNewContextResolutionFailure(t *testing.T) {
	m := NewManager(10, resolver.NewTable(map[string]string{"app-1": "uri1"}, nil), &sequentialIDs{})

	req := request()
	req.AppInfo.AppDId = strPtr("app-9")
	_, err := m.NewContext(req)
	require.Error(t, err)
	assert.True(t, problems.Is(err, problems.KindResolution))
	assert.EqualError(t, err, "no matching reference URI for app-9")
	assert.Equal(t, 0, m.Len())

	req.AppInfo.AppDId = strPtr("app-1")
	created, err := m.NewContext(req)
	require.NoError(t, err)
	assert.Equal(t, "uri1", *created.AppInfo.UserAppInstanceInfo[0].ReferenceURI)
}

func TestCapacity(t *testing.T) {
	const max = 10
	m := newTestManager(max)

	contexts := make(map[string]bool)
	instances := make(map[string]bool)
	for i := 0; i < max; i++ {
		created, err := m.NewContext(request())
		require.NoError(t, err)
		contexts[*created.ContextID] = true
		instances[*created.AppInfo.UserAppInstanceInfo[0].AppInstanceID] = true
	}
	assert.Len(t, contexts, max)
	assert.Len(t, instances, max)

	_, err := m.NewContext(request())
	require.Error(t, err)
	assert.True(t, problems.Is(err, problems.KindCapacity))
	assert.Len(t, m.ListContexts(), max)

	// Capacity is checked before validation.
	bad := request()
	bad.ContextID = strPtr("x")
	_, err = m.NewContext(bad)
	assert.True(t, problems.Is(err, problems.KindCapacity))

	for contextID := range contexts {
		require.NoError(t, m.DelContext(contextID))
		break
	}
	_, err = m.NewContext(request())
	assert.NoError(t, err)
}

func TestZeroCapacity(t *testing.T) {
	_, err := newTestManager(0).NewContext(request())
	assert.True(t, problems.Is(err, problems.KindCapacity))
}

func TestDelContext(t *testing.T) {
	m := newTestManager(10)
	created, err := m.NewContext(request())
	require.NoError(t, err)
	contextID := *created.ContextID

	require.NoError(t, m.DelContext(contextID))

	_, err = m.GetContext(contextID)
	assert.True(t, problems.Is(err, problems.KindNotFound))
	assert.EqualError(t, err, "context ID not found: "+contextID)

	err = m.DelContext("unknown")
	assert.True(t, problems.Is(err, problems.KindNotFound))
	assert.Equal(t, 0, m.Len())
}

func TestDelUnknownKeepsSize(t *testing.T) {
	m := newTestManager(10)
	_, err := m.NewContext(request())
	require.NoError(t, err)

	assert.Error(t, m.DelContext("unknown"))
	assert.Equal(t, 1, m.Len())
}

func TestGetContextReturnsCopy(t *testing.T) {
	m := newTestManager(10)
	created, err := m.NewContext(request())
	require.NoError(t, err)

	got, err := m.GetContext(*created.ContextID)
	require.NoError(t, err)
	got.CallbackReference = strPtr("mutated")
	*got.AppInfo.UserAppInstanceInfo[0].ReferenceURI = "mutated"

	again, err := m.GetContext(*created.ContextID)
	require.NoError(t, err)
	assert.Nil(t, again.CallbackReference)
	assert.Equal(t, "referenceURI", *again.AppInfo.UserAppInstanceInfo[0].ReferenceURI)
}

func TestUpdateContextCallbackOnly(t *testing.T) {
	m := newTestManager(10)
	created, err := m.NewContext(request())
	require.NoError(t, err)

	update := created.Clone()
	update.CallbackReference = strPtr("new_callback_reference")
	require.NoError(t, m.UpdateContext(update))

	got, err := m.GetContext(*created.ContextID)
	require.NoError(t, err)
	assert.Equal(t, "new_callback_reference", *got.CallbackReference)
	assert.True(t, got.EqualExceptCallback(created))

	// Clearing the callback is an update too.
	update.CallbackReference = nil
	require.NoError(t, m.UpdateContext(update))
	got, err = m.GetContext(*created.ContextID)
	require.NoError(t, err)
	assert.Nil(t, got.CallbackReference)
}

func TestUpdateContextConflict(t *testing.T) {
	m := newTestManager(10)
	created, err := m.NewContext(request())
	require.NoError(t, err)
	before, err := m.GetContext(*created.ContextID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*types.AppContext)
	}{
		{"app name", func(a *types.AppContext) { a.AppInfo.AppName = "my_another_app_name" }},
		{"flag", func(a *types.AppContext) { a.AppAutoInstantiation = true }},
		{"associate dev app", func(a *types.AppContext) { a.AssociateDevAppID = "other" }},
		{"instance info", func(a *types.AppContext) { a.AppInfo.UserAppInstanceInfo = nil }},
		{"reference uri", func(a *types.AppContext) {
			a.AppInfo.UserAppInstanceInfo[0].ReferenceURI = strPtr("elsewhere")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := created.Clone()
			update.CallbackReference = strPtr("cb")
			tt.mutate(update)

			err := m.UpdateContext(update)
			require.Error(t, err)
			assert.True(t, problems.Is(err, problems.KindConflict))
			assert.EqualError(t, err, "request does not match stored context")

			after, err := m.GetContext(*created.ContextID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestUpdateContextErrors(t *testing.T) {
	m := newTestManager(10)

	err := m.UpdateContext(request())
	assert.True(t, problems.Is(err, problems.KindBadRequest))
	assert.EqualError(t, err, "context ID not specified")

	assert.True(t, problems.Is(m.UpdateContext(nil), problems.KindBadRequest))

	unknown := request()
	unknown.ContextID = strPtr("unknown")
	assert.True(t, problems.Is(m.UpdateContext(unknown), problems.KindNotFound))
}

func TestListContexts(t *testing.T) {
	m := newTestManager(10)
	assert.Empty(t, m.ListContexts())

	var want []string
	for i := 0; i < 3; i++ {
		created, err := m.NewContext(request())
		require.NoError(t, err)
		want = append(want, *created.ContextID)
	}

	assert.ElementsMatch(t, want, m.ListContexts())
	assert.NoError(t, m.Status())
}

func TestMetrics(t *testing.T) {
	rec := newFakeRecorder()
	m := newTestManager(1).WithMetrics(rec)

	created, err := m.NewContext(request())
	require.NoError(t, err)
	_, err = m.NewContext(request())
	require.Error(t, err)
	_, _ = m.GetContext("unknown")
	require.NoError(t, m.DelContext(*created.ContextID))

	assert.Equal(t, 1, rec.created)
	assert.Equal(t, 0, rec.active)
	assert.Equal(t, 1, rec.operations["create/success"])
	assert.Equal(t, 1, rec.operations["create/capacity_exceeded"])
	assert.Equal(t, 1, rec.operations["get/not_found"])
	assert.Equal(t, 1, rec.operations["delete/success"])
}

func TestConcurrentAccess(t *testing.T) {
	const max = 50
	m := NewManager(max, resolver.NewSingle("uri"), id.NewGenerator())

	var wg sync.WaitGroup
	errs := make(chan error, max*2)
	for i := 0; i < max*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := m.NewContext(request())
			if err != nil {
				errs <- err
				return
			}
			_, _ = m.GetContext(*created.ContextID)
			_ = m.ListContexts()
		}()
	}
	wg.Wait()
	close(errs)

	rejected := 0
	for err := range errs {
		assert.True(t, problems.Is(err, problems.KindCapacity))
		rejected++
	}
	assert.Equal(t, max, rejected)
	assert.Equal(t, max, m.Len())
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(table, []byte(`{
		"max_contexts": 3,
		"mapping": [{"appdid": "1", "reference_uri": "uri1"}, {"appdid": "2", "reference_uri": "uri2"}]
	}`), 0o644))

	tests := []struct {
		value   string
		wantMax int
		wantErr bool
	}{
		{value: "single;10,URI", wantMax: 10},
		{value: "file;" + table, wantMax: 3},
		{value: "non-existing-type", wantErr: true},
		{value: "single;not-number,URI", wantErr: true},
		{value: "single;10", wantErr: true},
		{value: "single;10,", wantErr: true},
		{value: "single;1,2,3", wantErr: true},
		{value: "single;-1,URI", wantErr: true},
		{value: "file;", wantErr: true},
		{value: "file;" + filepath.Join(dir, "missing.json"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			m, err := Build(tt.value, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMax, m.MaxContexts())
		})
	}
}

func TestBuildFileResolvesByAppDId(t *testing.T) {
	table := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(table, []byte(`{
		"max_contexts": 3,
		"mapping": [{"appdid": "2", "reference_uri": "uri2"}]
	}`), 0o644))

	m, err := Build("file;"+table, &sequentialIDs{})
	require.NoError(t, err)

	req := request()
	req.AppInfo.AppDId = strPtr("2")
	created, err := m.NewContext(req)
	require.NoError(t, err)
	assert.Equal(t, "uri2", *created.AppInfo.UserAppInstanceInfo[0].ReferenceURI)

	_, err = m.NewContext(request())
	assert.True(t, problems.Is(err, problems.KindResolution))
}

// stalledSink holds every write until released.
type stalledSink struct {
	entered chan struct{}
	release chan struct{}
}

func (s *stalledSink) Write(p []byte) (int, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
	return len(p), nil
}

func TestStoreUsableWhileLogWriteStalls(t *testing.T) {
	sink := &stalledSink{entered: make(chan struct{}, 1), release: make(chan struct{})}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(sink), zapcore.DebugLevel)
	m := newTestManager(10).WithLogger(logging.Wrap(zap.New(core)))

	tests := []struct {
		name string
		op   func() error
	}{
		{"create", func() error {
			_, err := m.NewContext(request())
			return err
		}},
		{"update", func() error {
			stored, err := m.GetContext("ctx1")
			if err != nil {
				return err
			}
			stored.CallbackReference = strPtr("http://callback")
			return m.UpdateContext(stored)
		}},
		{"delete", func() error { return m.DelContext("ctx1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan error, 1)
			go func() { done <- tt.op() }()

			select {
			case <-sink.entered:
			case <-time.After(2 * time.Second):
				t.Fatal("operation did not log")
			}

			listed := make(chan int, 1)
			go func() { listed <- len(m.ListContexts()) + m.Len() }()
			select {
			case <-listed:
			case <-time.After(2 * time.Second):
				t.Fatal("store locked during log write")
			}

			sink.release <- struct{}{}
			require.NoError(t, <-done)
		})
	}

	assert.Equal(t, 0, m.Len())
}
