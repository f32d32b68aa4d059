// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package portal

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// ExecutableResolver finds the browser binary to launch.
type ExecutableResolver interface {
	Resolve() (string, error)
}

// Candidates probes a fixed ordered list of install paths.
type Candidates struct {
	Paths []string

	// Exists reports whether a path is a launchable file. Nil means a
	// regular file check with os.Stat.
	Exists func(path string) bool
}

// Resolve returns the first existing path.
func (c Candidates) Resolve() (string, error) {
	exists := c.Exists
	if exists == nil {
		exists = isRegularFile
	}
	for _, p := range c.Paths {
		if p != "" && exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: probed %d paths", ErrNoBrowserFound, len(c.Paths))
}

// LookPath asks the rod launcher for a browser on PATH or in its usual
// install locations. It does not download anything.
type LookPath struct{}

func (LookPath) Resolve() (string, error) {
	if p, ok := launcher.LookPath(); ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: nothing on PATH", ErrNoBrowserFound)
}

// Chain tries each resolver in order.
type Chain []ExecutableResolver

func (c Chain) Resolve() (string, error) {
	var errs []error
	for _, r := range c {
		p, err := r.Resolve()
		if err == nil {
			return p, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoBrowserFound
	}
	return "", errors.Join(errs...)
}

// DefaultResolver returns the resolver for this machine. A non-empty
// configured list replaces the built-in candidates entirely.
func DefaultResolver(configured []string) ExecutableResolver {
	if len(configured) > 0 {
		return Candidates{Paths: configured}
	}
	return Chain{
		Candidates{Paths: DefaultCandidates(runtime.GOOS, os.Getenv)},
		LookPath{},
	}
}

// DefaultCandidates lists install paths for goos: Chrome first, then Edge,
// then Brave (and Chromium outside Windows). Duplicates are dropped.
func DefaultCandidates(goos string, getenv func(string) string) []string {
	var paths []string
	switch goos {
	case "windows":
		local := getenv("LOCALAPPDATA")
		programFiles := getenv("PROGRAMFILES")
		programFilesX86 := getenv("PROGRAMFILES(X86)")
		if programFilesX86 == "" {
			programFilesX86 = `C:\Program Files (x86)`
		}
		paths = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			winJoin(local, `Google\Chrome\Application\chrome.exe`),
			winJoin(programFiles, `Google\Chrome\Application\chrome.exe`),
			winJoin(programFilesX86, `Google\Chrome\Application\chrome.exe`),

			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
			winJoin(programFiles, `Microsoft\Edge\Application\msedge.exe`),

			winJoin(local, `BraveSoftware\Brave-Browser\Application\brave.exe`),
			`C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`,
		}
	case "darwin":
		paths = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	default:
		paths = []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/opt/google/chrome/chrome",
			"/usr/bin/microsoft-edge",
			"/usr/bin/microsoft-edge-stable",
			"/usr/bin/brave-browser",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
	return dedupe(paths)
}

func winJoin(base, rel string) string {
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, `\`) + `\` + rel
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		out = append(out, p)
	}
	return out
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
