// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package portaltest provides in-memory portal pages and browser sessions
// for tests.
package portaltest

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/validardoc/internal/portal"
)

// Call records one method call on a Page.
type Call struct {
	Method   string
	Selector string
	Paths    []string
}

func (c Call) String() string {
	if c.Selector == "" {
		return c.Method
	}
	return c.Method + " " + c.Selector
}

// Page is a scripted portal.Page. Selectors listed in Present exist; every
// other selector is absent. The zero value has no elements.
type Page struct {
	mu sync.Mutex

	Present map[string]bool
	// ButtonText, when non-empty, is the text of a clickable button.
	ButtonText string
	// BodyText is returned by Text.
	BodyText string
	// Navigates reports whether submitting navigates. When false the
	// expectation waits until its context ends.
	Navigates bool
	// Errors maps "Method selector" (or "Method") to an error to return.
	Errors map[string]error
	// Before runs before every call; it can cancel contexts or close
	// sessions to simulate the browser going away.
	Before func(c Call)

	calls []Call
}

// NewPage returns a Page where every selector of script exists and
// submitting navigates.
func NewPage(script portal.Script, bodyText string) *Page {
	p := &Page{
		Present:   map[string]bool{},
		BodyText:  bodyText,
		Navigates: true,
	}
	for _, sel := range []string{
		script.DocumentInput, script.DetachedToggle, script.ConfirmButton,
		script.SignatureInput, script.AcceptTerms, script.SubmitButton,
	} {
		p.Present[sel] = true
	}
	return p
}

// Calls returns the recorded calls in order.
func (p *Page) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Methods returns the recorded calls as "Method selector" strings.
func (p *Page) Methods() []string {
	calls := p.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

func (p *Page) record(c Call) error {
	p.mu.Lock()
	p.calls = append(p.calls, c)
	before := p.Before
	err := p.Errors[c.String()]
	if err == nil {
		err = p.Errors[c.Method]
	}
	p.mu.Unlock()
	if before != nil {
		before(c)
	}
	return err
}

func (p *Page) has(selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Present[selector]
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := p.record(Call{Method: "Navigate", Selector: url}); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Page) Has(ctx context.Context, selector string) (bool, error) {
	if err := p.record(Call{Method: "Has", Selector: selector}); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.has(selector), nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	if err := p.record(Call{Method: "Click", Selector: selector}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.has(selector) {
		return fmt.Errorf("element %s not found", selector)
	}
	return nil
}

func (p *Page) SetFiles(ctx context.Context, selector string, paths ...string) error {
	if err := p.record(Call{Method: "SetFiles", Selector: selector, Paths: paths}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.has(selector) {
		return fmt.Errorf("%w: %s", portal.ErrUploadTargetMissing, selector)
	}
	return nil
}

func (p *Page) ClickButtonWithText(ctx context.Context, text string) (bool, error) {
	if err := p.record(Call{Method: "ClickButtonWithText", Selector: text}); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ButtonText != "" && p.ButtonText == text, nil
}

func (p *Page) ExpectNavigation(ctx context.Context) func() error {
	err := p.record(Call{Method: "ExpectNavigation"})
	return func() error {
		if err != nil {
			return err
		}
		p.mu.Lock()
		navigates := p.Navigates
		p.mu.Unlock()
		if navigates {
			return ctx.Err()
		}
		<-ctx.Done()
		return ctx.Err()
	}
}

func (p *Page) Text(ctx context.Context) (string, error) {
	if err := p.record(Call{Method: "Text"}); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.BodyText, nil
}

// Session is an in-memory portal.BrowserSession around a Page.
type Session struct {
	page *Page

	mu           sync.Mutex
	closed       bool
	closeCount   int
	disconnected chan struct{}
	// CloseErr is returned by Close.
	CloseErr error
	// CloseBlocks makes Close wait until its context ends.
	CloseBlocks bool
}

// NewSession returns a Session serving page.
func NewSession(page *Page) *Session {
	return &Session{page: page, disconnected: make(chan struct{})}
}

func (s *Session) Page() portal.Page { return s.page }

func (s *Session) Disconnected() <-chan struct{} { return s.disconnected }

// Disconnect simulates the user closing the browser window.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.disconnected)
}

func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closeCount++
	s.closed = true
	blocks := s.CloseBlocks
	err := s.CloseErr
	s.mu.Unlock()
	if blocks {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

// CloseCount reports how many times Close was called.
func (s *Session) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCount
}

// Launcher hands out a fixed session or error and records launches.
type Launcher struct {
	Session *Session
	Err     error

	mu       sync.Mutex
	launches []portal.LaunchOptions
}

func (l *Launcher) Launch(ctx context.Context, opts portal.LaunchOptions) (portal.BrowserSession, error) {
	l.mu.Lock()
	l.launches = append(l.launches, opts)
	l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Session, nil
}

// Launches returns the options of every Launch call.
func (l *Launcher) Launches() []portal.LaunchOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]portal.LaunchOptions(nil), l.launches...)
}
