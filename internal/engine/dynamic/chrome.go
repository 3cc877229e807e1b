package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

var browserBinaries = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"msedge",
}

// FindChrome locates a Chrome or Chromium executable.
//
// Lookup order: the explicit path, $CHROME_PATH, well-known install locations
// for the current OS, then $PATH. An empty result lets chromedp fall back to
// its own default lookup.
func FindChrome(explicit string) string {
	for _, p := range []string{explicit, os.Getenv("CHROME_PATH")} {
		if p == "" {
			continue
		}
		if isExecutable(p) {
			log.Debug().Str("path", p).Msg("Using configured Chrome")
			return p
		}
		log.Warn().Str("path", p).Msg("Configured Chrome path is not executable")
	}

	for _, p := range installCandidates(runtime.GOOS, os.Getenv("HOME")) {
		if isExecutable(p) {
			log.Debug().Str("path", p).Str("os", runtime.GOOS).Msg("Chrome found at standard location")
			return p
		}
	}

	for _, name := range browserBinaries {
		if p, err := exec.LookPath(name); err == nil {
			log.Debug().Str("path", p).Msg("Chrome found in PATH")
			return p
		}
	}

	log.Warn().Str("os", runtime.GOOS).Msg("Chrome not found, falling back to chromedp default")
	return ""
}

func installCandidates(goos, home string) []string {
	switch goos {
	case "darwin":
		c := []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
		if home != "" {
			c = append(c, filepath.Join(home, "Applications/Google Chrome.app/Contents/MacOS/Google Chrome"))
		}
		return c
	case "windows":
		var c []string
		for _, base := range []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)"), os.Getenv("LocalAppData")} {
			if base == "" {
				continue
			}
			c = append(c,
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(base, "Chromium", "Application", "chrome.exe"),
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
			)
		}
		return c
	case "linux":
		c := []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
		}
		if home != "" {
			c = append(c,
				filepath.Join(home, ".local/share/flatpak/exports/bin/com.google.Chrome"),
				filepath.Join(home, ".local/share/flatpak/exports/bin/org.chromium.Chromium"),
			)
		}
		return c
	}
	return nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}

// Version returns the `--version` output of the browser at path, or
// "unknown" when it cannot be determined
func Version(path string) string {
	if path == "" || runtime.GOOS == "windows" {
		return "unknown"
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
