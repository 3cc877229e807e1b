package config

import (
	"fmt"
	"strings"

	"github.com/law-makers/nutricrawl/internal/export"
	"github.com/law-makers/nutricrawl/internal/proxy"
	"github.com/law-makers/nutricrawl/internal/utils/headers"
)

func validate(c *Config) error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.WaitTimeout <= 0 || c.WaitTimeout > MaxWaitTimeout {
		return fmt.Errorf("wait timeout must be between 0 and %s", MaxWaitTimeout)
	}
	if c.SettleScale < 0 || c.SettleScale > MaxSettleScale {
		return fmt.Errorf("settle scale must be between 0 and %g", MaxSettleScale)
	}
	if c.NavigationRPS <= 0 {
		return fmt.Errorf("navigation rps must be > 0")
	}
	if c.NavigationBurst <= 0 {
		return fmt.Errorf("navigation burst must be > 0")
	}
	if c.Retries < 0 || c.Retries > MaxRetries {
		return fmt.Errorf("retries must be between 0 and %d", MaxRetries)
	}
	if _, err := headers.ParseHeaders(c.Headers); err != nil {
		return err
	}
	if _, err := export.For(export.Format(c.Format)); err != nil {
		return err
	}
	for _, p := range c.Proxies {
		if err := proxy.Validate(p); err != nil {
			return err
		}
	}
	return nil
}
