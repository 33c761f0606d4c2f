package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// dataDir returns the base directory for lapse's data files. LAPSE_DIR
// overrides the default ~/.lapse.
func dataDir() (string, error) {
	if dir := os.Getenv("LAPSE_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".lapse"), nil
}

func main() {
	baseDir, err := dataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := newCLIApp(baseDir)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
