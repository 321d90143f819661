package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"treerun/internal/config"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// resolvePlanPath accepts either a filesystem path or the name of a
// plan under the configured plan directory, with or without the .toml
// extension.
func (c *commandContext) resolvePlanPath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if fileExists(arg) {
		return arg, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	candidates := []string{
		filepath.Join(cfg.Paths.PlanDir, arg),
		filepath.Join(cfg.Paths.PlanDir, arg+".toml"),
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", &os.PathError{Op: "open", Path: arg, Err: os.ErrNotExist}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
