// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package portal

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// LaunchOptions selects how the browser is started.
type LaunchOptions struct {
	// Interactive shows a maximized window without automation banners.
	// Otherwise the browser runs headless and sandbox-free with a fixed
	// viewport.
	Interactive bool

	ViewportWidth  int
	ViewportHeight int
}

// BrowserSession owns one browser process and its single page.
type BrowserSession interface {
	Page() Page
	// Disconnected is closed when the browser goes away without Close
	// having been called, e.g. the user closed the window.
	Disconnected() <-chan struct{}
	// Close shuts the browser down, waiting at most until ctx ends.
	Close(ctx context.Context) error
}

// Launcher starts browsers found by its resolver.
type Launcher struct {
	resolver ExecutableResolver
	logger   *zap.Logger
}

// NewLauncher returns a Launcher using resolver.
func NewLauncher(resolver ExecutableResolver, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{resolver: resolver, logger: logger}
}

// Launch resolves the browser binary, starts it with flags for opts and
// connects to it over the DevTools protocol.
func (l *Launcher) Launch(ctx context.Context, opts LaunchOptions) (BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bin, err := l.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	l.logger.Info("launching browser", zap.String("bin", bin), zap.Bool("interactive", opts.Interactive))

	lc := Flags(launcher.New().Bin(bin), opts)
	controlURL, err := lc.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBrowserLaunchFailed, bin, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		lc.Kill()
		return nil, fmt.Errorf("%w: connecting to %s: %v", ErrBrowserLaunchFailed, controlURL, err)
	}
	if opts.Interactive {
		browser = browser.NoDefaultDevice()
	}

	page, err := firstPage(browser)
	if err != nil {
		_ = browser.Close()
		lc.Kill()
		return nil, fmt.Errorf("%w: opening page: %v", ErrBrowserLaunchFailed, err)
	}
	if !opts.Interactive && opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.ViewportWidth,
			Height:            opts.ViewportHeight,
			DeviceScaleFactor: 1,
		}); err != nil {
			l.logger.Warn("failed to set viewport", zap.Error(err))
		}
	}

	s := &Session{
		launcher:     lc,
		browser:      browser,
		page:         NewRodPage(page),
		disconnected: make(chan struct{}),
		exited:       make(chan struct{}),
		logger:       l.logger,
	}
	go s.watch()
	return s, nil
}

// Flags applies the mode-specific command line to lc.
func Flags(lc *launcher.Launcher, opts LaunchOptions) *launcher.Launcher {
	if opts.Interactive {
		return lc.Headless(false).
			Set("start-maximized").
			Set("disable-blink-features", "AutomationControlled").
			Delete("enable-automation")
	}
	return lc.Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-gpu")
}

func firstPage(b *rod.Browser) (*rod.Page, error) {
	pages, err := b.Pages()
	if err == nil && len(pages) > 0 {
		return pages[0], nil
	}
	return b.Page(proto.TargetCreateTarget{})
}

// Session is a launched browser with one page.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     Page
	logger   *zap.Logger

	closing      atomic.Bool
	disconnected chan struct{}
	exited       chan struct{}
}

func (s *Session) Page() Page { return s.page }

func (s *Session) Disconnected() <-chan struct{} { return s.disconnected }

// watch blocks until the browser process exits.
func (s *Session) watch() {
	s.launcher.Cleanup()
	close(s.exited)
	if !s.closing.Load() {
		s.logger.Warn("browser closed externally")
		close(s.disconnected)
	}
}

func (s *Session) Close(ctx context.Context) error {
	if !s.closing.CompareAndSwap(false, true) {
		return nil
	}
	err := s.browser.Close()
	select {
	case <-s.exited:
	case <-ctx.Done():
		s.launcher.Kill()
		return fmt.Errorf("waiting for browser exit: %w", ctx.Err())
	}
	if err != nil {
		// The process is gone either way.
		s.logger.Debug("browser close returned error", zap.Error(err))
	}
	return nil
}
