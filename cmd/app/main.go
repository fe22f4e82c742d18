package main

import (
	"flag"
	"log"
	"os"

	"github.com/Ak47-369/bookticket-api-gateway/internal/di"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s rate_limit_store=%s routes=%d", cfg.Environment, cfg.RateLimit.Store, len(cfg.Routes))

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
