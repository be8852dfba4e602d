package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

func validateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("config file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", abs)
	}

	return nil
}

// isTerminal reports whether w writes to an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
