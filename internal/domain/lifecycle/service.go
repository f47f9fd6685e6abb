package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/monitoring"
)

// binder performs the service-specific export.
type binder interface {
	bind(s *Service, conn Connection, path string, generation uint64) (Registration, error)
}

// Service owns the binding between a provider source and a bus connection
type Service struct {
	name    string
	binder  binder
	hooks   Hooks
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu         sync.RWMutex
	state      State        // Protected by mu
	binding    *Binding     // Protected by mu
	reg        Registration // Protected by mu
	generation uint64       // Protected by mu
}

func newService(name string, b binder) *Service {
	return &Service{
		name:   name,
		binder: b,
		hooks:  NopHooks{},
		logger: zap.NewNop(),
	}
}

// NewSubtreeService creates a service that serves a dynamic family of child
// objects through handler.
func NewSubtreeService(handler SubtreeHandler) *Service {
	return newService("subtree", subtreeBinder{handler: handler})
}

// NewSingleService creates a service that exports one provider, built by the
// caller at startup, at the registration path.
func NewSingleService(p provider.Provider) *Service {
	return newService("single", objectBinder{provider: p})
}

// WithName overrides the name used in logs and metrics
func (s *Service) WithName(name string) *Service {
	s.name = name
	return s
}

// WithHooks sets the platform hooks run around the export
func (s *Service) WithHooks(hooks Hooks) *Service {
	if hooks != nil {
		s.hooks = hooks
	}
	return s
}

// WithLogger sets the service logger
func (s *Service) WithLogger(logger *zap.Logger) *Service {
	if logger != nil {
		s.logger = logger.With(zap.String("service", s.name))
	}
	return s
}

// WithMetrics adds metrics tracking to the service
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// Name returns the service name
func (s *Service) Name() string {
	return s.name
}

// Register binds the service to conn at path. Registering an already
// registered service does nothing.
func (s *Service) Register(ctx context.Context, conn Connection, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRegistered {
		s.logger.Debug("Service already registered", zap.String("path", s.binding.Path))
		return nil
	}

	if err := s.hooks.Register(ctx, conn, path); err != nil {
		s.metrics.RecordRegistration(s.name, "hook_error")
		return fmt.Errorf("register %s at %s: %w", s.name, path, err)
	}

	generation := s.generation + 1
	reg, err := s.binder.bind(s, conn, path, generation)
	if err != nil {
		s.hooks.Unregister(conn, path)
		s.metrics.RecordRegistration(s.name, "export_error")
		return fmt.Errorf("export %s at %s: %w", s.name, path, err)
	}

	s.generation = generation
	s.reg = reg
	s.state = StateRegistered
	s.binding = &Binding{
		ID:           uuid.New().String(),
		Path:         path,
		Conn:         conn,
		RegisteredAt: time.Now(),
	}

	s.metrics.RecordRegistration(s.name, "ok")
	s.metrics.SetBound(s.name, true)
	s.logger.Info("Service registered",
		zap.String("path", path),
		zap.String("binding_id", s.binding.ID),
	)
	return nil
}

// Unregister detaches the service from its connection. It is safe to call
// when not registered and after transport failures.
func (s *Service) Unregister() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRegistered {
		return
	}

	binding := s.binding
	reg := s.reg

	s.state = StateUnregistered
	s.binding = nil
	s.reg = nil

	if reg != nil {
		if err := reg.Unregister(); err != nil {
			s.logger.Warn("Failed to remove export", zap.String("path", binding.Path), zap.Error(err))
		}
	}
	s.hooks.Unregister(binding.Conn, binding.Path)

	s.metrics.SetBound(s.name, false)
	s.logger.Info("Service unregistered",
		zap.String("path", binding.Path),
		zap.String("binding_id", binding.ID),
		zap.Duration("bound_for", time.Since(binding.RegisteredAt)),
	)
}

// State returns the current registration state
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Binding returns a copy of the active binding
func (s *Service) Binding() (Binding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.binding == nil {
		return Binding{}, false
	}
	return *s.binding, true
}

// current reports whether generation is the live registration.
func (s *Service) current(generation uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateRegistered && s.generation == generation
}
