package device

import (
	"sync"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/home"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// Registry holds the live agents for one run.
// It provides thread-safe lookup by device type.
type Registry struct {
	// agents maps device types to their agent.
	agents map[models.DeviceType]Agent
	// mu protects agents.
	mu sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[models.DeviceType]Agent)}
}

// Register adds an agent to the registry, replacing any previous agent of
// the same type.
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.Type()] = a
}

// Get retrieves the agent for a device type.
func (r *Registry) Get(d models.DeviceType) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[d]
	return a, ok
}

// Types returns the registered device types in enum order.
func (r *Registry) Types() []models.DeviceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.DeviceType, 0, len(r.agents))
	for _, d := range models.AllDeviceTypes {
		if _, ok := r.agents[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// BuildRegistry registers an agent for every device present in the home
// profile. Devices missing from the profile get no agent, so tasks routed
// to them fail as having no live collaborator.
func BuildRegistry(c llm.Completer, p *home.Profile) *Registry {
	r := NewRegistry()
	for _, d := range p.Devices {
		switch d {
		case models.DeviceClock:
			r.Register(NewClock(c, p))
		case models.DeviceCalendar:
			r.Register(NewCalendar(c, p))
		case models.DeviceSearchEngine:
			r.Register(NewSearch(c, p))
		case models.DeviceTVDisplay:
			r.Register(NewTV(c, p))
		case models.DeviceFridge:
			r.Register(NewFridge(c, p))
		case models.DeviceLighting:
			r.Register(NewLighting(c, p))
		case models.DeviceThermostat:
			r.Register(NewThermostat(c, p))
		case models.DeviceAudioSystem:
			r.Register(NewAudio(c, p))
		}
	}
	return r
}
