package bus

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/lifecycle"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// NameOwner requests and releases well-known bus names.
type NameOwner interface {
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// NameHooks owns a well-known name while a service is registered.
type NameHooks struct {
	owner  NameOwner
	name   string
	logger *zap.Logger
}

// NewNameHooks creates hooks owning name through owner
func NewNameHooks(owner NameOwner, name string) *NameHooks {
	return &NameHooks{owner: owner, name: name, logger: zap.NewNop()}
}

// WithLogger sets the logger
func (h *NameHooks) WithLogger(logger *zap.Logger) *NameHooks {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Register requests the name, failing if another connection owns it.
func (h *NameHooks) Register(ctx context.Context, _ lifecycle.Connection, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	reply, err := h.owner.RequestName(h.name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", h.name, err)
	}
	switch reply {
	case dbus.RequestNameReplyPrimaryOwner, dbus.RequestNameReplyAlreadyOwner:
		h.logger.Info("Acquired bus name",
			zap.String("name", h.name),
			zap.String("path", path))
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNameTaken, h.name)
}

// Unregister releases the name. Failures are logged.
func (h *NameHooks) Unregister(_ lifecycle.Connection, _ string) {
	reply, err := h.owner.ReleaseName(h.name)
	if err != nil {
		h.logger.Warn("Failed to release bus name",
			zap.String("name", h.name),
			zap.Error(err))
		return
	}
	h.logger.Info("Released bus name",
		zap.String("name", h.name),
		zap.Uint32("reply", uint32(reply)))
}
