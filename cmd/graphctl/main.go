package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/OFFIS-RIT/constellation/backend/internal/config"
	"github.com/OFFIS-RIT/constellation/backend/internal/util"
	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger/console"
)

func main() {
	cmd := newRootCmd(func(o rootOptions) (*graph.GraphClient, error) {
		util.LoadEnv()
		cfg := config.Load()
		if o.strict {
			cfg.StrictCategories = true
		}
		if o.repair {
			cfg.RepairJSON = true
		}

		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug:  cfg.Debug || o.verbose,
			Output: os.Stderr,
		}))
		return cfg.NewGraphClient()
	})

	if err := cmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
