package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeQueue()
	c.normalizeUploader()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeQueue() {
	if strings.TrimSpace(c.Queue.DefaultProvider) == "" {
		c.Queue.DefaultProvider = defaultProvider
	}
	c.Queue.DefaultProvider = strings.ToLower(strings.TrimSpace(c.Queue.DefaultProvider))
}

func (c *Config) normalizeUploader() {
	c.Uploader.Endpoint = strings.TrimSpace(c.Uploader.Endpoint)
	if c.Uploader.BatchSize <= 0 {
		c.Uploader.BatchSize = defaultBatchSize
	}
	if c.Uploader.PollInterval <= 0 {
		c.Uploader.PollInterval = defaultPollInterval
	}
	if c.Uploader.ErrorRetryInterval <= 0 {
		c.Uploader.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Uploader.RequestTimeout <= 0 {
		c.Uploader.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
