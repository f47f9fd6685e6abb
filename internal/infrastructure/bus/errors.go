package bus

import (
	"errors"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/lifecycle"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/shared/buslabel"
	"github.com/godbus/dbus/v5"
)

// Standard D-Bus error names
const (
	ErrNameFailed           = "org.freedesktop.DBus.Error.Failed"
	ErrNameUnknownObject    = "org.freedesktop.DBus.Error.UnknownObject"
	ErrNameUnknownInterface = "org.freedesktop.DBus.Error.UnknownInterface"
	ErrNameInvalidArgs      = "org.freedesktop.DBus.Error.InvalidArgs"
)

var (
	ErrUnknownInterface = errors.New("interface not in catalog")
	ErrDuplicate        = errors.New("interface already in catalog")
	ErrNameTaken        = errors.New("bus name is owned by another connection")
)

// ToError maps err to the D-Bus error returned to the caller.
func ToError(err error) *dbus.Error {
	if err == nil {
		return nil
	}

	var derr *dbus.Error
	if errors.As(err, &derr) {
		return derr
	}

	var decodeErr *buslabel.DecodeError
	switch {
	case errors.As(err, &decodeErr), errors.Is(err, lifecycle.ErrNotRegistered):
		return dbus.NewError(ErrNameUnknownObject, []interface{}{err.Error()})
	case errors.Is(err, dispatch.ErrUnknownInterface):
		return dbus.NewError(ErrNameUnknownInterface, []interface{}{err.Error()})
	}

	if code, ok := provider.CodeOf(err); ok {
		return dbus.NewError(code.BusName(), []interface{}{err.Error()})
	}
	return dbus.NewError(ErrNameFailed, []interface{}{err.Error()})
}

func unknownObject(path dbus.ObjectPath) *dbus.Error {
	return dbus.NewError(ErrNameUnknownObject, []interface{}{"no object at " + string(path)})
}
