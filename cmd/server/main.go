package main

import (
	"github.com/OFFIS-RIT/constellation/backend/internal/config"
	"github.com/OFFIS-RIT/constellation/backend/internal/server"
	"github.com/OFFIS-RIT/constellation/backend/internal/util"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()
	cfg := config.Load()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	client, err := cfg.NewGraphClient()
	if err != nil {
		logger.Fatal("Failed to create graph client", "err", err)
	}

	server.Init(client, cfg.Port)
}
