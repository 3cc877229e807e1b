package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel        = "warn"
	DefaultJSONLog         = false
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultHeadless        = true
	DefaultWaitTimeout     = 10 * time.Second
	DefaultSettleScale     = 1.0
	DefaultNavigationRPS   = 1.0
	DefaultNavigationBurst = 2
	DefaultRetries         = 0
	DefaultOutputDir       = "."
	DefaultDiagnosticsDir  = "."
	DefaultFormat          = "csv"
	MaxWaitTimeout         = 2 * time.Minute
	MaxSettleScale         = 10.0
	MaxRetries             = 5
)
