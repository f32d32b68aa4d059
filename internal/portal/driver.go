// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package portal drives a browser through the signature-validation portal:
// it resolves and launches the browser, walks the upload-and-validate form,
// and returns the rendered result text.
package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Probe is one attempt at finding and clicking a control. It reports
// whether the control was found.
type Probe struct {
	Name string
	Try  func(ctx context.Context, page Page) (bool, error)
}

// SelectorProbe clicks selector if it is present.
func SelectorProbe(selector string) Probe {
	return Probe{
		Name: selector,
		Try: func(ctx context.Context, page Page) (bool, error) {
			has, err := page.Has(ctx, selector)
			if err != nil || !has {
				return false, err
			}
			return true, page.Click(ctx, selector)
		},
	}
}

// TextProbe clicks the first button whose text contains text.
func TextProbe(text string) Probe {
	return Probe{
		Name: fmt.Sprintf("text %q", text),
		Try: func(ctx context.Context, page Page) (bool, error) {
			return page.ClickButtonWithText(ctx, text)
		},
	}
}

// Submission is a submitted form whose result page has not been read yet.
type Submission struct {
	wait   func() error
	cancel context.CancelFunc
}

// Driver executes the portal script against a page.
type Driver struct {
	script Script
	logger *zap.Logger
}

// NewDriver returns a Driver for script.
func NewDriver(script Script, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{script: script, logger: logger}
}

// CookieProbes returns the consent probes in the order they are tried.
func (d *Driver) CookieProbes() []Probe {
	probes := make([]Probe, 0, len(d.script.CookieSelectors)+1)
	for _, sel := range d.script.CookieSelectors {
		probes = append(probes, SelectorProbe(sel))
	}
	if d.script.CookieText != "" {
		probes = append(probes, TextProbe(d.script.CookieText))
	}
	return probes
}

// Walk loads the portal, uploads the document and its detached signature,
// accepts the terms and submits. The returned Submission must be passed to
// AwaitResult.
func (d *Driver) Walk(ctx context.Context, page Page, documentPath, signaturePath string) (*Submission, error) {
	if err := d.navigate(ctx, page); err != nil {
		return nil, err
	}

	d.dismissCookies(ctx, page)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.logger.Info("uploading document", zap.String("path", documentPath))
	if err := d.upload(ctx, page, d.script.DocumentInput, documentPath); err != nil {
		return nil, err
	}

	d.logger.Info("selecting detached signature mode")
	if err := d.click(ctx, page, d.script.DetachedToggle); err != nil {
		return nil, err
	}
	if err := pause(ctx, d.script.DialogDelay); err != nil {
		return nil, err
	}
	if err := d.click(ctx, page, d.script.ConfirmButton); err != nil {
		return nil, err
	}

	d.logger.Info("uploading signature", zap.String("path", signaturePath))
	if err := d.upload(ctx, page, d.script.SignatureInput, signaturePath); err != nil {
		return nil, err
	}

	d.logger.Info("accepting terms and submitting")
	if err := d.click(ctx, page, d.script.AcceptTerms); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, d.script.ResultTimeout)
	wait := page.ExpectNavigation(waitCtx)
	if err := d.click(ctx, page, d.script.SubmitButton); err != nil {
		cancel()
		return nil, err
	}
	return &Submission{wait: wait, cancel: cancel}, nil
}

// AwaitResult waits for the result page, settles, and returns its text. A
// result that renders without navigating is read in place after the
// timeout.
func (d *Driver) AwaitResult(ctx context.Context, page Page, sub *Submission) (string, error) {
	d.logger.Info("waiting for result", zap.Duration("timeout", d.script.ResultTimeout))
	err := sub.wait()
	sub.cancel()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("waiting for result: %w", err)
		}
		d.logger.Warn("no navigation after submit, reading result in place",
			zap.Error(ErrNavigationTimeout))
	}

	if err := pause(ctx, d.script.ResultSettle); err != nil {
		return "", err
	}
	text, err := page.Text(ctx)
	if err != nil {
		return "", err
	}
	d.logger.Debug("result page read", zap.Int("chars", len(text)))
	return text, nil
}

func (d *Driver) navigate(ctx context.Context, page Page) error {
	d.logger.Info("navigating", zap.String("url", d.script.URL))
	navCtx, cancel := context.WithTimeout(ctx, d.script.NavigateTimeout)
	defer cancel()

	err := page.Navigate(navCtx, d.script.URL)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		// The form steps fail on their own if the page never loaded.
		d.logger.Warn("network did not go idle, continuing", zap.Duration("timeout", d.script.NavigateTimeout))
		return nil
	default:
		return err
	}
}

// dismissCookies tries each consent probe in order. Nothing it encounters
// fails the walk.
func (d *Driver) dismissCookies(ctx context.Context, page Page) {
	if err := pause(ctx, d.script.CookieSettle); err != nil {
		return
	}
	for _, probe := range d.CookieProbes() {
		probeCtx, cancel := context.WithTimeout(ctx, d.script.ElementTimeout)
		found, err := probe.Try(probeCtx, page)
		cancel()
		if err != nil {
			d.logger.Debug("cookie probe failed", zap.String("probe", probe.Name), zap.Error(err))
			continue
		}
		if found {
			d.logger.Info("cookie consent accepted", zap.String("probe", probe.Name))
			_ = pause(ctx, d.script.CookieClickSettle)
			return
		}
	}
	d.logger.Info("no cookie consent control found")
}

func (d *Driver) upload(ctx context.Context, page Page, selector, path string) error {
	stepCtx, cancel := context.WithTimeout(ctx, d.script.ElementTimeout)
	defer cancel()

	has, err := page.Has(stepCtx, selector)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", selector, err)
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrUploadTargetMissing, selector)
	}
	if err := page.SetFiles(stepCtx, selector, path); err != nil {
		return err
	}
	return pause(ctx, d.script.UploadSettle)
}

func (d *Driver) click(ctx context.Context, page Page, selector string) error {
	stepCtx, cancel := context.WithTimeout(ctx, d.script.ElementTimeout)
	defer cancel()
	if err := page.Click(stepCtx, selector); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// pause sleeps for d or until ctx ends.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
