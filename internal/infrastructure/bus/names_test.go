package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockNameOwner struct {
	mock.Mock
}

func (m *mockNameOwner) RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	args := m.Called(name, flags)
	return args.Get(0).(dbus.RequestNameReply), args.Error(1)
}

func (m *mockNameOwner) ReleaseName(name string) (dbus.ReleaseNameReply, error) {
	args := m.Called(name)
	return args.Get(0).(dbus.ReleaseNameReply), args.Error(1)
}

const busName = "com.example.Search"

func TestNameHooksRegister(t *testing.T) {
	tests := []struct {
		name    string
		reply   dbus.RequestNameReply
		err     error
		wantErr error
	}{
		{name: "primary owner", reply: dbus.RequestNameReplyPrimaryOwner},
		{name: "already owner", reply: dbus.RequestNameReplyAlreadyOwner},
		{name: "exists", reply: dbus.RequestNameReplyExists, wantErr: ErrNameTaken},
		{name: "in queue", reply: dbus.RequestNameReplyInQueue, wantErr: ErrNameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := &mockNameOwner{}
			owner.On("RequestName", busName, dbus.NameFlagDoNotQueue).Return(tt.reply, tt.err)

			err := NewNameHooks(owner, busName).WithLogger(zaptest.NewLogger(t)).
				Register(context.Background(), nil, "/com/example/Search")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			owner.AssertExpectations(t)
		})
	}
}

func TestNameHooksRegisterTransportError(t *testing.T) {
	owner := &mockNameOwner{}
	owner.On("RequestName", busName, dbus.NameFlagDoNotQueue).
		Return(dbus.RequestNameReply(0), errors.New("disconnected"))

	err := NewNameHooks(owner, busName).Register(context.Background(), nil, "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disconnected")
}

func TestNameHooksRegisterCancelled(t *testing.T) {
	owner := &mockNameOwner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewNameHooks(owner, busName).Register(ctx, nil, "/")
	assert.ErrorIs(t, err, context.Canceled)
	owner.AssertNotCalled(t, "RequestName", mock.Anything, mock.Anything)
}

func TestNameHooksUnregister(t *testing.T) {
	owner := &mockNameOwner{}
	owner.On("ReleaseName", busName).Return(dbus.ReleaseNameReplyReleased, nil).Once()
	owner.On("ReleaseName", busName).Return(dbus.ReleaseNameReply(0), errors.New("gone")).Once()

	hooks := NewNameHooks(owner, busName).WithLogger(zaptest.NewLogger(t))
	hooks.Unregister(nil, "/")
	hooks.Unregister(nil, "/")

	owner.AssertNumberOfCalls(t, "ReleaseName", 2)
}
