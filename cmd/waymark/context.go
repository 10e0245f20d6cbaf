package main

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"waymark/internal/config"
	"waymark/internal/locations"
	"waymark/internal/settings"
	"waymark/internal/store"
)

// commandContext shares lazily loaded configuration and a single database
// handle across subcommands. The database opens on first use so commands like
// `config path` never touch the data directory.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	lazyOnce sync.Once
	lazy     *store.Lazy
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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) database(ctx context.Context) (*store.DB, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.lazyOnce.Do(func() {
		c.lazy = store.NewLazy(func() (*store.DB, error) {
			return store.Open(cfg)
		})
	})
	return c.lazy.Get(ctx)
}

func (c *commandContext) locationStore(ctx context.Context) (*locations.Store, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}
	return locations.New(db), nil
}

func (c *commandContext) settingsStore(ctx context.Context) (*settings.Store, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}
	return settings.New(db, nil), nil
}

func (c *commandContext) closeStore() error {
	if c.lazy == nil {
		return nil
	}
	return c.lazy.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
