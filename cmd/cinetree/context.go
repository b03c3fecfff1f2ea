package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cinetree/internal/config"
	"cinetree/internal/logging"
	"cinetree/internal/metadata"
	"cinetree/internal/organizer"
	"cinetree/internal/queue"
	"cinetree/internal/transfer"
)

// commandContext lazily builds the pieces commands share: config, logger,
// metadata provider, queue store, organizer. Everything loads once per
// invocation.
type commandContext struct {
	configFlag  *string
	catalogFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	storeOnce sync.Once
	store     *queue.Store
	storeErr  error
}

func newCommandContext(configFlag, catalogFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, catalogFlag: catalogFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureStore() (*queue.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = queue.Open(cfg.Paths.QueuePath)
	})
	return c.store, c.storeErr
}

// provider loads the offline metadata catalog: a JSON array of candidate
// records next to the config file, overridable with --catalog. A missing
// catalog yields an empty provider; identification then parks everything
// for review rather than failing.
func (c *commandContext) provider() metadata.Provider {
	path := ""
	if c.catalogFlag != nil {
		path = strings.TrimSpace(*c.catalogFlag)
	}
	if path == "" {
		path = filepath.Join(filepath.Dir(config.DefaultPath()), "catalog.json")
	}
	provider := &metadata.StaticProvider{Tag: "catalog"}
	data, err := os.ReadFile(path)
	if err != nil {
		return provider
	}
	if err := json.Unmarshal(data, &provider.Entries); err != nil {
		return &metadata.StaticProvider{Tag: "catalog"}
	}
	return provider
}

func (c *commandContext) organizer() (*organizer.Organizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	lockPath := filepath.Join(filepath.Dir(cfg.Paths.QueuePath), "cinetree.lock")
	tr := transfer.New(lockPath, logger)
	return organizer.New(cfg, c.provider(), tr, store, logger), nil
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}
