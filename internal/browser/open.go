// Package browser launches planor's web surfaces (the dashboard and the
// API docs) in the user's default browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Open opens url in the default browser. The BROWSER environment variable
// takes precedence over platform detection.
func Open(url string) error {
	if b := os.Getenv("BROWSER"); b != "" {
		return exec.Command(b, url).Start()
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
