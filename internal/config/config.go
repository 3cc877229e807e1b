package config

import (
	"fmt"
	"os"
	"time"

	"github.com/law-makers/nutricrawl/internal/proxy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Browser
	UserAgent  string
	Proxies    []string
	Headless   bool
	ChromePath string
	Headers    []string

	// Pacing
	WaitTimeout     time.Duration
	SettleScale     float64
	NavigationRPS   float64
	NavigationBurst int
	Retries         int

	// Output
	OutputDir       string
	DiagnosticsDir  string
	Format          string
	SaveFirstDetail bool
}

// Defaults returns a Config populated with the built-in defaults
func Defaults() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		UserAgent:       DefaultUserAgent,
		Headless:        DefaultHeadless,
		WaitTimeout:     DefaultWaitTimeout,
		SettleScale:     DefaultSettleScale,
		NavigationRPS:   DefaultNavigationRPS,
		NavigationBurst: DefaultNavigationBurst,
		Retries:         DefaultRetries,
		OutputDir:       DefaultOutputDir,
		DiagnosticsDir:  DefaultDiagnosticsDir,
		Format:          DefaultFormat,
	}
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the command being executed so both global and local flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	return load(cmd, os.Getenv)
}

func load(cmd *cobra.Command, getenv func(string) string) (*Config, error) {
	cfg := Defaults()

	var flags *pflag.FlagSet
	if cmd != nil {
		flags = cmd.Flags()
	}

	if path := stringFlag(flags, "config"); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
		fc.apply(cfg)
	}

	// Override from environment variables
	if v := getenv("NUTRICRAWL_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv("NUTRICRAWL_PROXY"); v != "" {
		proxies, err := proxy.ParseList(v)
		if err != nil {
			return nil, fmt.Errorf("invalid config: NUTRICRAWL_PROXY: %w", err)
		}
		cfg.Proxies = proxies
	}
	if v := getenv("NUTRICRAWL_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := getenv("NUTRICRAWL_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	if flags != nil {
		if err := applyFlags(cfg, flags); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyFlags copies every flag the user set explicitly. Unset flags keep the
// value from earlier layers, so a flag default never masks the file or env.
func applyFlags(cfg *Config, flags *pflag.FlagSet) error {
	if changed(flags, "user-agent") {
		cfg.UserAgent = stringFlag(flags, "user-agent")
	}
	if changed(flags, "proxy") {
		proxies, err := proxy.ParseList(stringFlag(flags, "proxy"))
		if err != nil {
			return fmt.Errorf("--proxy: %w", err)
		}
		cfg.Proxies = proxies
	}
	if changed(flags, "chrome-path") {
		cfg.ChromePath = stringFlag(flags, "chrome-path")
	}
	if changed(flags, "headless") {
		cfg.Headless, _ = flags.GetBool("headless")
	}
	if changed(flags, "wait-timeout") {
		cfg.WaitTimeout, _ = flags.GetDuration("wait-timeout")
	}
	if changed(flags, "settle-scale") {
		cfg.SettleScale, _ = flags.GetFloat64("settle-scale")
	}
	if changed(flags, "rps") {
		cfg.NavigationRPS, _ = flags.GetFloat64("rps")
	}
	if changed(flags, "burst") {
		cfg.NavigationBurst, _ = flags.GetInt("burst")
	}
	if changed(flags, "retries") {
		cfg.Retries, _ = flags.GetInt("retries")
	}
	if changed(flags, "header") {
		cfg.Headers, _ = flags.GetStringArray("header")
	}
	if changed(flags, "output-dir") {
		cfg.OutputDir = stringFlag(flags, "output-dir")
	}
	if changed(flags, "diagnostics-dir") {
		cfg.DiagnosticsDir = stringFlag(flags, "diagnostics-dir")
	}
	if changed(flags, "format") {
		cfg.Format = stringFlag(flags, "format")
	}
	if changed(flags, "save-first-detail") {
		cfg.SaveFirstDetail, _ = flags.GetBool("save-first-detail")
	}
	if changed(flags, "json") {
		cfg.JSONLog, _ = flags.GetBool("json")
	}

	if v, _ := flags.GetBool("quiet"); v {
		cfg.LogLevel = "error"
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	return nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

func stringFlag(flags *pflag.FlagSet, name string) string {
	if flags == nil {
		return ""
	}
	if f := flags.Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}
