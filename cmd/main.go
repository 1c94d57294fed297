package main

import (
	"os"
	"os/signal"
	"syscall"

	"APAgingSuite/internal/appmanager"
	"APAgingSuite/internal/config"
	"APAgingSuite/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load()

	boot := logger.New()
	servicesFile := os.Getenv("SERVICES_FILE")
	if servicesFile == "" {
		servicesFile = config.DefaultServicesFile
	}

	manager := appmanager.NewAppManager()

	servicesCfg, err := appmanager.LoadServiceSequence(servicesFile)
	if err != nil {
		boot.Fatal().Err(err).Str("file", servicesFile).Msg("failed to load service sequence")
	}

	for _, name := range manager.AutoRegisterServices(servicesCfg) {
		boot.Warn().Str("service", name).Msg("unknown service in sequence, skipped")
	}

	if err := manager.StartAll(); err != nil {
		boot.Fatal().Err(err).Msg("failed to start")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs

	l := logger.L()
	l.Info().Str("signal", sig.String()).Msg("shutting down")
	if err := manager.StopAll(); err != nil {
		boot.Fatal().Err(err).Msg("failed to stop")
	}
}
