package browser

import (
	"os"
	"os/exec"
)

// EnvBrowserPath is the environment variable checked for a custom browser
// executable when no --browser flag is given.
const EnvBrowserPath = "WAVE_BROWSER"

// executableCandidates are the names searched on PATH, most specific
// first. The absolute entries cover macOS app bundles, which are not on
// PATH by default.
var executableCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// ResolveExecPath locates the browser executable to launch.
// Resolution order: the explicit path argument, the WAVE_BROWSER
// environment variable, then well-known executable names. Returns
// ErrBrowserNotFound when nothing usable exists.
func ResolveExecPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	if env := os.Getenv(EnvBrowserPath); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", err
		}
		return env, nil
	}

	for _, candidate := range executableCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", ErrBrowserNotFound
}
