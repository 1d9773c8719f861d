package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mummysboy/galantsalestracker/internal/config"
	"github.com/mummysboy/galantsalestracker/internal/logging"
	"github.com/mummysboy/galantsalestracker/internal/server"
	"github.com/mummysboy/galantsalestracker/internal/util"
)

var (
	port    = flag.Int("port", 0, "HTTP port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "dev mode: console logging, gin debug")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	log := logging.New(cfg.Server.DevMode)

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("dashboard listening")
		if err := srv.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			log.Info().Str("url", url).Msg("open the dashboard manually")
		}
	} else {
		log.Info().Str("url", url).Msg("dashboard ready")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := srv.Close(); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
