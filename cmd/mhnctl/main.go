package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/cbio-kiel/mhnctl/internal/config"
	"github.com/cbio-kiel/mhnctl/internal/logging"
	"github.com/cbio-kiel/mhnctl/internal/observability"
	"github.com/cbio-kiel/mhnctl/internal/repro"
)

func main() {
	logging.ConfigureRuntime()

	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := loadRunConfig(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "mhnctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	driver, err := repro.NewDriver(driverConfig(cfg), log.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mhnctl: %v\n", err)
		os.Exit(1)
	}
	if err := driver.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mhnctl: %v\n", err)
		os.Exit(1)
	}

	metricsPath := filepath.Join(cfg.ResultsDir, "mhnctl.prom")
	if err := observability.WriteTextfile(metricsPath); err != nil {
		log.Warn().Err(err).Msg("metrics export failed")
	}
}
