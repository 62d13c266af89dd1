package main

import (
	"log"

	"github.com/autoinspect/inspection-service/config"
	"github.com/autoinspect/inspection-service/internal/appServer"
)

func main() {
	viperInstance, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		log.Fatalf("Cannot parse config: %v", err)
	}

	appServer.NewServer(cfg)
}
