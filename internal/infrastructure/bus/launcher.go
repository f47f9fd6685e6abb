package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/shared/paths"
	"github.com/godbus/dbus/v5"
)

// KnowledgeSearchInterface is implemented by knowledge apps to open content.
const KnowledgeSearchInterface = "com.endlessm.KnowledgeSearch"

// ObjectSource returns remote objects. *dbus.Conn implements it.
type ObjectSource interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Launcher asks knowledge apps to show items and queries.
type Launcher struct {
	conn     ObjectSource
	breakers *resilience.Group
	timeout  time.Duration
}

// NewLauncher creates a launcher calling through conn
func NewLauncher(conn ObjectSource) *Launcher {
	return &Launcher{conn: conn}
}

// WithBreakers guards each app behind its own breaker in g
func (l *Launcher) WithBreakers(g *resilience.Group) *Launcher {
	l.breakers = g
	return l
}

// WithTimeout bounds every call. Zero leaves calls bounded by the caller only.
func (l *Launcher) WithTimeout(d time.Duration) *Launcher {
	l.timeout = d
	return l
}

// LaunchFailure reports whether err should count against an app's breaker.
// Calls abandoned by the caller do not.
func LaunchFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

// LoadItem opens item id of appID, highlighting query.
func (l *Launcher) LoadItem(ctx context.Context, appID, id, query string, timestamp uint32) error {
	return l.call(ctx, appID, "LoadItem", id, query, timestamp)
}

// LoadQuery opens appID on the results for query.
func (l *Launcher) LoadQuery(ctx context.Context, appID, query string, timestamp uint32) error {
	return l.call(ctx, appID, "LoadQuery", query, timestamp)
}

func (l *Launcher) call(ctx context.Context, appID, method string, args ...interface{}) error {
	path := dbus.ObjectPath(paths.AppPath("", appID).ObjectPath())
	if !path.IsValid() {
		return fmt.Errorf("no object path for app %q", appID)
	}

	invoke := func() error {
		callCtx := ctx
		if l.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, l.timeout)
			defer cancel()
		}
		obj := l.conn.Object(appID, path)
		if call := obj.CallWithContext(callCtx, KnowledgeSearchInterface+"."+method, 0, args...); call.Err != nil {
			return fmt.Errorf("%s on %s: %w", method, appID, call.Err)
		}
		return nil
	}

	if l.breakers == nil {
		return invoke()
	}
	if err := l.breakers.Do(appID, invoke); err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrProbing) {
			return fmt.Errorf("%s on %s: %w", method, appID, err)
		}
		return err
	}
	return nil
}
