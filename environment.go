// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// environment returns the variables that options can fall back on.
// Variables from the env files are overridden by the process environment,
// or by the map given to UseEnvironment.
func (a *App) environment() (map[string]string, error) {
	env := map[string]string{}
	var files []string
	for _, f := range a.envFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("env file not found", "file", f)
			continue
		}
		files = append(files, f)
	}
	if len(files) > 0 {
		fenv, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("reading env files: %w", err)
		}
		for k, v := range fenv {
			env[k] = v
		}
	}
	if a.env != nil {
		for k, v := range a.env {
			env[k] = v
		}
		return env, nil
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}
