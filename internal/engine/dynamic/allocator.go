package dynamic

import (
	"github.com/chromedp/chromedp"
	"github.com/law-makers/nutricrawl/internal/config"
)

// Options configures one browser launch
type Options struct {
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
	// AcceptLanguage is sent with every request the tab makes
	AcceptLanguage string
	// Headers are extra request headers; an Accept-Language entry here wins
	Headers   map[string]string
	ExtraArgs []chromedp.ExecAllocatorOption
}

// allocatorOptions returns the exec allocator flags for a run.
// The flag set keeps automation hints away from the page and trims background
// work Chrome would otherwise do during long sequential crawls.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	ua := opts.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-client-side-phishing-detection", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("disable-features", "TranslateUI"),
		// Menu sites serve a reduced page to obvious automation
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(ua),
	}

	chromePath := FindChrome(opts.ChromePath)
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}

	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	return append(allocOpts, opts.ExtraArgs...)
}
