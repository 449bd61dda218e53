package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTransfer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTransfer() error {
	if c.Transfer.RsyncBinary == "" {
		return errors.New("transfer.rsync_binary must be set")
	}
	for _, pattern := range append(append([]string{}, c.Transfer.DefaultExcludes...), c.Transfer.OptionalExcludes...) {
		if _, err := path.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("transfer exclude %q: %w", pattern, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
