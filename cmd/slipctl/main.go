// Command slipctl works with the employee roster and salary slips from the
// shell, against the same store the HTTP server uses.
package main

import (
	"fmt"
	"os"

	"github.com/rrayyhanep/Heaven-receipt/internal/config"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	apperror.Init()

	if err := newRootCmd(loadConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads path when set, otherwise falls back to CONFIG_FILE.
func loadConfig(path string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path, true, os.LookupEnv)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Validate()
}
