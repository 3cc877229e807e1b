package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration schema. Absent keys leave the
// defaults untouched.
type FileConfig struct {
	Log struct {
		Level string `yaml:"level"`
		JSON  *bool  `yaml:"json"`
	} `yaml:"log"`

	Browser struct {
		Headless   *bool    `yaml:"headless"`
		ChromePath string   `yaml:"chromePath"`
		UserAgent  string   `yaml:"userAgent"`
		Proxies    []string `yaml:"proxies"`
		Headers    []string `yaml:"headers"`
	} `yaml:"browser"`

	Crawl struct {
		WaitTimeout time.Duration `yaml:"waitTimeout"`
		SettleScale float64       `yaml:"settleScale"`
		RPS         float64       `yaml:"rps"`
		Burst       int           `yaml:"burst"`
		Retries     *int          `yaml:"retries"`
	} `yaml:"crawl"`

	Output struct {
		Dir             string `yaml:"dir"`
		DiagnosticsDir  string `yaml:"diagnosticsDir"`
		Format          string `yaml:"format"`
		SaveFirstDetail *bool  `yaml:"saveFirstDetail"`
	} `yaml:"output"`
}

// LoadFile reads a YAML configuration file. Unknown keys are rejected so
// typos do not pass silently.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// apply overlays the set values of fc onto c
func (fc FileConfig) apply(c *Config) {
	if fc.Log.Level != "" {
		c.LogLevel = fc.Log.Level
	}
	if fc.Log.JSON != nil {
		c.JSONLog = *fc.Log.JSON
	}
	if fc.Browser.Headless != nil {
		c.Headless = *fc.Browser.Headless
	}
	if fc.Browser.ChromePath != "" {
		c.ChromePath = fc.Browser.ChromePath
	}
	if fc.Browser.UserAgent != "" {
		c.UserAgent = fc.Browser.UserAgent
	}
	if len(fc.Browser.Proxies) > 0 {
		c.Proxies = fc.Browser.Proxies
	}
	if len(fc.Browser.Headers) > 0 {
		c.Headers = fc.Browser.Headers
	}
	if fc.Crawl.Retries != nil {
		c.Retries = *fc.Crawl.Retries
	}
	if fc.Crawl.WaitTimeout != 0 {
		c.WaitTimeout = fc.Crawl.WaitTimeout
	}
	if fc.Crawl.SettleScale != 0 {
		c.SettleScale = fc.Crawl.SettleScale
	}
	if fc.Crawl.RPS != 0 {
		c.NavigationRPS = fc.Crawl.RPS
	}
	if fc.Crawl.Burst != 0 {
		c.NavigationBurst = fc.Crawl.Burst
	}
	if fc.Output.Dir != "" {
		c.OutputDir = fc.Output.Dir
	}
	if fc.Output.DiagnosticsDir != "" {
		c.DiagnosticsDir = fc.Output.DiagnosticsDir
	}
	if fc.Output.Format != "" {
		c.Format = fc.Output.Format
	}
	if fc.Output.SaveFirstDetail != nil {
		c.SaveFirstDetail = *fc.Output.SaveFirstDetail
	}
}
