package dispatch

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

const testInterface = "org.gnome.Shell.SearchProvider2"

type fakeSkeleton struct {
	appID string
	iface string
}

func (s *fakeSkeleton) Interface() string { return s.iface }

type fakeProvider struct {
	appID    string
	skeleton *fakeSkeleton
}

func (p *fakeProvider) AppID() string               { return p.appID }
func (p *fakeProvider) Skeleton() provider.Skeleton { return p.skeleton }

func newFakeProvider(appID, iface string) *fakeProvider {
	return &fakeProvider{appID: appID, skeleton: &fakeSkeleton{appID: appID, iface: iface}}
}

// countingFactory records every identifier it is asked to build.
type countingFactory struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	block chan struct{}
}

func (f *countingFactory) Create(ctx context.Context, appID string) (provider.Provider, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, appID)
	if err, ok := f.fail[appID]; ok {
		return nil, err
	}
	return newFakeProvider(appID, testInterface), nil
}

func (f *countingFactory) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *countingFactory) setFailure(appID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, appID)
		return
	}
	if f.fail == nil {
		f.fail = make(map[string]error)
	}
	f.fail[appID] = err
}

// mockFactory is a testify mock of provider.Factory.
type mockFactory struct {
	mock.Mock
}

func (m *mockFactory) Create(ctx context.Context, appID string) (provider.Provider, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(provider.Provider), args.Error(1)
}

func newTestDispatcher(factory provider.Factory) *Dispatcher {
	return NewDispatcher(provider.Family{
		Name:       "search",
		Interfaces: []string{testInterface},
		Factory:    factory,
	})
}
