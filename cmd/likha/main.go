package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bobsantos/likha-app-sub000/internal/config"
	"github.com/bobsantos/likha-app-sub000/internal/server"
)

var (
	port    = flag.Int("port", 0, "HTTP port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	// .env is optional; environment overrides are read during config load.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config, using defaults: %v\n", err)
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

	var log *zap.Logger
	if cfg.Server.DevMode {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize server", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.Run(addr); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := srv.Close(); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
}
