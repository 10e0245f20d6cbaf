package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateUploader(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.Ceiling < 0 {
		return errors.New("queue.ceiling must not be negative")
	}
	return nil
}

func (c *Config) validateUploader() error {
	if !c.Uploader.Enabled {
		return nil
	}
	endpoint := strings.TrimSpace(c.Uploader.Endpoint)
	if endpoint == "" {
		return errors.New("uploader.endpoint must be set when uploader.enabled is true")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("uploader.endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("uploader.endpoint must be an http(s) URL, got %q", endpoint)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
