package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/monitoring"
)

const (
	rootPath      = "/com/endlessm/EknServices3/SearchProviderV3"
	testInterface = "org.gnome.Shell.SearchProvider2"
)

type fakeSkeleton struct{ appID string }

func (s *fakeSkeleton) Interface() string { return testInterface }

type fakeProvider struct {
	appID    string
	skeleton *fakeSkeleton
}

func (p *fakeProvider) AppID() string               { return p.appID }
func (p *fakeProvider) Skeleton() provider.Skeleton { return p.skeleton }

type fakeRegistration struct {
	conn    *fakeConn
	path    string
	err     error
	removed int
}

func (r *fakeRegistration) Unregister() error {
	r.removed++
	r.conn.mu.Lock()
	delete(r.conn.subtrees, r.path)
	delete(r.conn.objects, r.path)
	r.conn.mu.Unlock()
	return r.err
}

// fakeConn records exports the way a bus connection would.
type fakeConn struct {
	mu        sync.Mutex
	subtrees  map[string]SubtreeHandler
	objects   map[string]provider.Skeleton
	exportErr error
	unregErr  error
	regs      []*fakeRegistration
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		subtrees: make(map[string]SubtreeHandler),
		objects:  make(map[string]provider.Skeleton),
	}
}

func (c *fakeConn) ExportSubtree(path string, handler SubtreeHandler) (Registration, error) {
	if c.exportErr != nil {
		return nil, c.exportErr
	}
	c.mu.Lock()
	c.subtrees[path] = handler
	c.mu.Unlock()
	reg := &fakeRegistration{conn: c, path: path, err: c.unregErr}
	c.regs = append(c.regs, reg)
	return reg, nil
}

func (c *fakeConn) Export(path string, skeleton provider.Skeleton) (Registration, error) {
	if c.exportErr != nil {
		return nil, c.exportErr
	}
	c.mu.Lock()
	c.objects[path] = skeleton
	c.mu.Unlock()
	reg := &fakeRegistration{conn: c, path: path, err: c.unregErr}
	c.regs = append(c.regs, reg)
	return reg, nil
}

func (c *fakeConn) subtree(path string) (SubtreeHandler, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.subtrees[path]
	return h, ok
}

func (c *fakeConn) object(path string) (provider.Skeleton, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.objects[path]
	return s, ok
}

type mockHooks struct {
	mock.Mock
}

func (m *mockHooks) Register(ctx context.Context, conn Connection, path string) error {
	args := m.Called(ctx, conn, path)
	return args.Error(0)
}

func (m *mockHooks) Unregister(conn Connection, path string) {
	m.Called(conn, path)
}

type countingFactory struct {
	mu    sync.Mutex
	calls []string
}

func (f *countingFactory) Create(ctx context.Context, appID string) (provider.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, appID)
	return &fakeProvider{appID: appID, skeleton: &fakeSkeleton{appID: appID}}, nil
}

func newRouter(factory provider.Factory) *dispatch.Router {
	return dispatch.NewRouter(dispatch.NewDispatcher(provider.Family{
		Name:       "search",
		Interfaces: []string{testInterface},
		Factory:    factory,
	}))
}

func TestSubtreeServiceRegister(t *testing.T) {
	factory := &countingFactory{}
	svc := NewSubtreeService(newRouter(factory)).WithLogger(zaptest.NewLogger(t))
	conn := newFakeConn()
	ctx := context.Background()

	assert.Equal(t, StateUnregistered, svc.State())
	require.NoError(t, svc.Register(ctx, conn, rootPath))
	assert.Equal(t, StateRegistered, svc.State())

	binding, ok := svc.Binding()
	require.True(t, ok)
	assert.Equal(t, rootPath, binding.Path)
	assert.Same(t, conn, binding.Conn)
	assert.NotEmpty(t, binding.ID)

	handler, ok := conn.subtree(rootPath)
	require.True(t, ok)
	assert.Equal(t, []string{testInterface}, handler.Interfaces())

	skel, err := handler.Dispatch(ctx, "app_5f1", testInterface)
	require.NoError(t, err)
	assert.Equal(t, "app_1", skel.(*fakeSkeleton).appID)
}

func TestSubtreeServiceRegisterTwiceIsNoop(t *testing.T) {
	svc := NewSubtreeService(newRouter(&countingFactory{}))
	conn := newFakeConn()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, conn, rootPath))
	first, _ := svc.Binding()

	require.NoError(t, svc.Register(ctx, newFakeConn(), "/other"))
	second, _ := svc.Binding()

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, conn.regs, 1)
}

func TestSubtreeServiceUnregister(t *testing.T) {
	svc := NewSubtreeService(newRouter(&countingFactory{}))
	conn := newFakeConn()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, conn, rootPath))
	handler, _ := conn.subtree(rootPath)

	svc.Unregister()
	assert.Equal(t, StateUnregistered, svc.State())
	_, ok := conn.subtree(rootPath)
	assert.False(t, ok)
	_, ok = svc.Binding()
	assert.False(t, ok)

	// A handler captured by the transport before unregistration is inert.
	_, err := handler.Dispatch(ctx, "app", testInterface)
	assert.ErrorIs(t, err, ErrNotRegistered)

	// Second unregister must not release again.
	svc.Unregister()
	assert.Equal(t, 1, conn.regs[0].removed)
}

func TestSubtreeServiceReRegisterKeepsProviders(t *testing.T) {
	factory := &countingFactory{}
	svc := NewSubtreeService(newRouter(factory))
	ctx := context.Background()

	conn1 := newFakeConn()
	require.NoError(t, svc.Register(ctx, conn1, rootPath))
	h1, _ := conn1.subtree(rootPath)
	before, err := h1.Dispatch(ctx, "app_5f1", testInterface)
	require.NoError(t, err)

	svc.Unregister()

	conn2 := newFakeConn()
	require.NoError(t, svc.Register(ctx, conn2, rootPath))
	h2, ok := conn2.subtree(rootPath)
	require.True(t, ok)

	after, err := h2.Dispatch(ctx, "app_5f1", testInterface)
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, []string{"app_1"}, factory.calls)

	// The old connection's handler stays inert after re-registration.
	_, err = h1.Dispatch(ctx, "app_5f1", testInterface)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestServiceHooksOrder(t *testing.T) {
	hooks := &mockHooks{}
	conn := newFakeConn()
	ctx := context.Background()

	hooks.On("Register", ctx, conn, rootPath).Return(nil).Once()
	hooks.On("Unregister", conn, rootPath).Once()

	svc := NewSubtreeService(newRouter(&countingFactory{})).WithHooks(hooks)
	require.NoError(t, svc.Register(ctx, conn, rootPath))
	svc.Unregister()

	hooks.AssertExpectations(t)
}

func TestServiceHookFailure(t *testing.T) {
	hooks := &mockHooks{}
	conn := newFakeConn()
	ctx := context.Background()
	claimed := errors.New("name already owned")

	hooks.On("Register", ctx, conn, rootPath).Return(claimed).Once()

	svc := NewSubtreeService(newRouter(&countingFactory{})).WithHooks(hooks)
	err := svc.Register(ctx, conn, rootPath)
	require.ErrorIs(t, err, claimed)
	assert.Equal(t, StateUnregistered, svc.State())
	assert.Empty(t, conn.regs)

	hooks.AssertNotCalled(t, "Unregister", mock.Anything, mock.Anything)
}

func TestServiceExportFailureRollsBackHooks(t *testing.T) {
	hooks := &mockHooks{}
	conn := newFakeConn()
	conn.exportErr = errors.New("path already claimed")
	ctx := context.Background()

	hooks.On("Register", ctx, conn, rootPath).Return(nil).Once()
	hooks.On("Unregister", conn, rootPath).Once()

	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	svc := NewSubtreeService(newRouter(&countingFactory{})).WithHooks(hooks).WithMetrics(metrics)

	err := svc.Register(ctx, conn, rootPath)
	require.ErrorIs(t, err, conn.exportErr)
	assert.Equal(t, StateUnregistered, svc.State())
	hooks.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Registrations.WithLabelValues("subtree", "export_error")))

	// Unregister after a failed register is harmless.
	svc.Unregister()
}

func TestServiceUnregisterAfterTransportError(t *testing.T) {
	conn := newFakeConn()
	conn.unregErr = errors.New("connection lost")
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())

	svc := NewSubtreeService(newRouter(&countingFactory{})).
		WithLogger(zaptest.NewLogger(t)).
		WithMetrics(metrics)
	require.NoError(t, svc.Register(context.Background(), conn, rootPath))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BindingsActive.WithLabelValues("subtree")))

	assert.NotPanics(t, svc.Unregister)
	assert.NotPanics(t, svc.Unregister)
	assert.Equal(t, 1, conn.regs[0].removed)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.BindingsActive.WithLabelValues("subtree")))
}

func TestSingleService(t *testing.T) {
	p := &fakeProvider{appID: "com.example.App", skeleton: &fakeSkeleton{appID: "com.example.App"}}
	svc := NewSingleService(p).WithName("single-test")
	ctx := context.Background()
	path := "/com/example/App"

	conn1 := newFakeConn()
	require.NoError(t, svc.Register(ctx, conn1, path))
	skel, ok := conn1.object(path)
	require.True(t, ok)
	assert.Same(t, p.skeleton, skel)
	assert.Equal(t, "single-test", svc.Name())

	svc.Unregister()
	_, ok = conn1.object(path)
	assert.False(t, ok)

	conn2 := newFakeConn()
	require.NoError(t, svc.Register(ctx, conn2, path))
	skel, ok = conn2.object(path)
	require.True(t, ok)
	assert.Same(t, p.skeleton, skel)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unregistered", StateUnregistered.String())
	assert.Equal(t, "registered", StateRegistered.String())
	assert.Equal(t, "unknown", State(42).String())
}
