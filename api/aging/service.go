package aging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"APAgingSuite/api"
	"APAgingSuite/internal/audit"
	"APAgingSuite/internal/config"
	"APAgingSuite/internal/serviceiface"

	"github.com/shopspring/decimal"
)

type AgingService struct {
	config   map[string]interface{}
	recorder audit.Recorder
	server   *http.Server
}

func NewAgingService(cfg map[string]interface{}) serviceiface.Service {
	return &AgingService{config: cfg, recorder: audit.Nop{}}
}

// SetRecorder wires the run audit store.
func (s *AgingService) SetRecorder(r audit.Recorder) {
	if r != nil {
		s.recorder = r
	}
}

func (s *AgingService) Name() string {
	return "aging"
}

// NewHandler builds the request handler from the service config.
func (s *AgingService) NewHandler() (*Handler, error) {
	raw := config.String(s.config, "default_eur_rate", config.DefaultEURRate)
	rate, err := decimal.NewFromString(raw)
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("aging: invalid default_eur_rate %q", raw)
	}
	return &Handler{
		DefaultRate:     rate,
		DefaultCurrency: strings.ToUpper(config.String(s.config, "currency", config.DefaultCurrency)),
		MaxUploadBytes:  int64(config.Int(s.config, "max_upload_mb", config.DefaultMaxUploadMB)) << 20,
		Recorder:        s.recorder,
		Now:             time.Now,
	}, nil
}

func (s *AgingService) Start() error {
	h, err := s.NewHandler()
	if err != nil {
		return err
	}
	port := config.Int(s.config, "port", config.DefaultAgingPort)
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		api.LogInfo("Aging Service started on :%d", port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			api.LogError("Aging Service failed: %v", err)
		}
	}()
	return nil
}

func (s *AgingService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
