package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"APAgingSuite/internal/config"
	"APAgingSuite/internal/serviceiface"
)

type GatewayService struct {
	config map[string]interface{}
	server *http.Server
}

func NewGatewayService(cfg map[string]interface{}) serviceiface.Service {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	routes := config.StringMap(s.config, "routes")
	if len(routes) == 0 {
		routes = DefaultRoutes
	}
	handler, err := NewGatewayHandler(routes)
	if err != nil {
		return err
	}
	port := config.Int(s.config, "port", config.DefaultGatewayPort)
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		LogInfo("API Gateway started on :%d", port)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			LogError("Gateway server failed: %v", err)
		}
	}()
	return nil
}

func (s *GatewayService) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
