package config

import "github.com/spf13/cobra"

// RegisterFlags registers the global CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Log JSON lines instead of console output")
	pf.String("config", "", "Path to a YAML configuration file")
	pf.String("proxy", "", "Proxy or comma separated proxies to rotate (http, https, socks5)")
	pf.String("user-agent", "", "Custom user agent string")
	pf.String("chrome-path", "", "Path to the Chrome/Chromium executable")
	pf.Bool("headless", DefaultHeadless, "Run the browser without a window")
	pf.Duration("wait-timeout", DefaultWaitTimeout, "Upper bound for every wait on page content")
	pf.Float64("settle-scale", DefaultSettleScale, "Multiplier applied to fixed settle delays")
	pf.Float64("rps", DefaultNavigationRPS, "Page navigations per second per host")
	pf.Int("burst", DefaultNavigationBurst, "Navigation burst per host")
	pf.Int("retries", DefaultRetries, "Extra attempts for page loads that fail transiently (0 keeps a failed item skipped)")
	pf.StringArrayP("header", "H", nil, "Extra request header for the browser (e.g. -H \"Referer: https://...\")")
	pf.String("output-dir", "", "Directory for export files")
	pf.String("diagnostics-dir", "", "Directory for diagnostic HTML snapshots")
}

// RegisterScrapeFlags registers the export flags of the scrape command
func RegisterScrapeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("format", "f", DefaultFormat, "Export format: csv or json")
	f.Bool("save-first-detail", false, "Save the markup of the first opened item for inspection")
}
