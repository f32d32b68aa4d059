// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Page is the subset of a browser tab the walk needs. Every call is bounded
// by ctx.
type Page interface {
	// Navigate loads url and waits for network activity to go idle.
	Navigate(ctx context.Context, url string) error
	// Has reports whether selector matches now, without waiting.
	Has(ctx context.Context, selector string) (bool, error)
	// Click waits for selector and clicks it.
	Click(ctx context.Context, selector string) error
	// SetFiles attaches paths to the file input matched by selector.
	SetFiles(ctx context.Context, selector string, paths ...string) error
	// ClickButtonWithText clicks the first button whose text contains text
	// and reports whether one was found.
	ClickButtonWithText(ctx context.Context, text string) (bool, error)
	// ExpectNavigation must be called before the action that navigates.
	// The returned func blocks until the navigation settles or ctx ends.
	ExpectNavigation(ctx context.Context) func() error
	// Text returns the rendered text of the document body.
	Text(ctx context.Context) (string, error)
}

// requestIdle is how long the network must be quiet to count as idle.
const requestIdle = 500 * time.Millisecond

// rodPage adapts a rod page to Page.
type rodPage struct {
	page *rod.Page
}

// NewRodPage wraps p.
func NewRodPage(p *rod.Page) Page {
	return &rodPage{page: p}
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	wait := page.WaitRequestIdle(requestIdle, nil, nil, nil)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	wait()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for network idle: %w", err)
	}
	return nil
}

func (p *rodPage) Has(ctx context.Context, selector string) (bool, error) {
	has, _, err := p.page.Context(ctx).Has(selector)
	return has, err
}

func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s not found: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

func (p *rodPage) SetFiles(ctx context.Context, selector string, paths ...string) error {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", selector, err)
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrUploadTargetMissing, selector)
	}
	if err := el.SetFiles(paths); err != nil {
		return fmt.Errorf("attaching files to %s: %w", selector, err)
	}
	return nil
}

const clickButtonWithTextJS = `(text) => {
	const btn = Array.from(document.querySelectorAll('button')).find((b) =>
		(b.textContent || '').includes(text) ||
		String(b.onclick || '').includes('cookiebutton'));
	if (!btn) return false;
	btn.click();
	return true;
}`

func (p *rodPage) ClickButtonWithText(ctx context.Context, text string) (bool, error) {
	res, err := p.page.Context(ctx).Eval(clickButtonWithTextJS, text)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (p *rodPage) ExpectNavigation(ctx context.Context) func() error {
	wait := p.page.Context(ctx).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	return func() error {
		wait()
		return ctx.Err()
	}
}

func (p *rodPage) Text(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.body ? document.body.innerText : ''`)
	if err != nil {
		return "", fmt.Errorf("reading page text: %w", err)
	}
	return res.Value.Str(), nil
}
