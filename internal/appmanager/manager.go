package appmanager

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"APAgingSuite/api"
	agingapi "APAgingSuite/api/aging"
	"APAgingSuite/internal/audit"
	"APAgingSuite/internal/logger"
	"APAgingSuite/internal/serviceiface"

	"gopkg.in/yaml.v3"
)

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"audit": func(cfg map[string]interface{}) serviceiface.Service {
		return audit.NewAuditService(cfg)
	},
	"aging": func(cfg map[string]interface{}) serviceiface.Service {
		return agingapi.NewAgingService(cfg)
	},
	"gateway": func(cfg map[string]interface{}) serviceiface.Service {
		return api.NewGatewayService(cfg)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

// StartAll starts services in registration order. On failure the services
// already started are stopped again.
func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()

	for i, service := range am.services {
		l := logger.L()
		l.Info().Str("service", service.Name()).Msg("starting service")
		if err := service.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				am.services[j].Stop()
			}
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

// StopAll stops services in reverse order, attempting every one.
func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	var firstErr error
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return firstErr
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseServiceSequence(data)
}

// ParseServiceSequence decodes a services document sorted by start_order.
func ParseServiceSequence(data []byte) ([]ServiceConfig, error) {
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	sort.SliceStable(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices builds the known services and wires them together.
// Unknown names are reported and skipped.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) []string {
	var unknown []string
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			unknown = append(unknown, svc.Name)
			continue
		}
		am.RegisterService(constructor(svc.Config))
	}

	var recorder audit.Recorder
	for _, svc := range am.services {
		switch s := svc.(type) {
		case *logger.LoggerService:
			logger.SetGlobalLogger(s)
		case *audit.Service:
			recorder = s
		}
	}
	if recorder != nil {
		for _, svc := range am.services {
			if a, ok := svc.(*agingapi.AgingService); ok {
				a.SetRecorder(recorder)
			}
		}
	}
	return unknown
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
