package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/lifecycle"
)

// ServiceStatus reports one lifecycle service
type ServiceStatus struct {
	Name         string     `json:"name"`
	State        string     `json:"state"`
	BindingID    string     `json:"binding_id,omitempty"`
	Path         string     `json:"path,omitempty"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
}

// ProviderEntry reports one cached provider
type ProviderEntry struct {
	Segment string `json:"segment"`
	AppID   string `json:"app_id"`
}

// FamilyStatus reports one dispatcher and its cache
type FamilyStatus struct {
	Name       string          `json:"name"`
	Interfaces []string        `json:"interfaces"`
	Providers  []ProviderEntry `json:"providers"`
}

func (s *Server) health(c *gin.Context) {
	s.metrics.UpdateUptime()

	services := make([]ServiceStatus, 0, len(s.services))
	healthy := true
	for _, svc := range s.services {
		status := ServiceStatus{Name: svc.Name(), State: svc.State().String()}
		if b, ok := svc.Binding(); ok {
			at := b.RegisteredAt
			status.BindingID = b.ID
			status.Path = b.Path
			status.RegisteredAt = &at
		}
		if svc.State() != lifecycle.StateRegistered {
			healthy = false
		}
		services = append(services, status)
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}
	c.JSON(code, gin.H{
		"status":   status,
		"uptime":   time.Since(s.started).Round(time.Second).String(),
		"services": services,
	})
}

func (s *Server) providers(c *gin.Context) {
	families := []FamilyStatus{}
	if s.dispatch != nil {
		for _, d := range s.dispatch.Dispatchers() {
			families = append(families, familyStatus(d))
		}
	}
	c.JSON(http.StatusOK, gin.H{"families": families})
}

func (s *Server) family(c *gin.Context) {
	name := c.Param("family")
	if s.dispatch != nil {
		for _, d := range s.dispatch.Dispatchers() {
			if d.Family().Name == name {
				c.JSON(http.StatusOK, familyStatus(d))
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown family: " + name})
}

func (s *Server) launchers(c *gin.Context) {
	states := map[string]string{}
	if s.breakers != nil {
		for appID, state := range s.breakers.States() {
			states[appID] = state.String()
		}
	}
	c.JSON(http.StatusOK, gin.H{"launchers": states})
}

func familyStatus(d *dispatch.Dispatcher) FamilyStatus {
	entries := d.Providers()
	providers := make([]ProviderEntry, 0, len(entries))
	for _, e := range entries {
		providers = append(providers, ProviderEntry{Segment: e.Segment, AppID: e.AppID})
	}
	return FamilyStatus{
		Name:       d.Family().Name,
		Interfaces: d.Family().Interfaces,
		Providers:  providers,
	}
}
