// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package portal

import (
	"time"

	"github.com/pdiddy/validardoc/pkg/types"
)

// Script holds the portal's fixed UI sequence: where to go, what to click,
// and how long each step may wait.
type Script struct {
	URL string

	// CookieSelectors are probed in order before CookieText.
	CookieSelectors []string
	// CookieText is matched against button text in the page.
	CookieText string

	DocumentInput  string
	DetachedToggle string
	ConfirmButton  string
	SignatureInput string
	AcceptTerms    string
	SubmitButton   string

	NavigateTimeout   time.Duration
	ElementTimeout    time.Duration
	CookieSettle      time.Duration
	CookieClickSettle time.Duration
	UploadSettle      time.Duration
	DialogDelay       time.Duration
	ResultTimeout     time.Duration
	ResultSettle      time.Duration
}

// DefaultScript returns the sequence for the ITI validation portal.
func DefaultScript() Script {
	return Script{
		URL: types.DefaultPortalURL,
		CookieSelectors: []string{
			`button[onclick="cookiebutton()"]`,
			`button.deny.grabt`,
		},
		CookieText: "Aceitar cookies",

		DocumentInput:  "#signature_files",
		DetachedToggle: "#detached",
		ConfirmButton:  "#confirmButton",
		SignatureInput: "#signature_filesDetached",
		AcceptTerms:    "#acceptTerms",
		SubmitButton:   "#validateSignature",

		NavigateTimeout:   30 * time.Second,
		ElementTimeout:    10 * time.Second,
		CookieSettle:      1 * time.Second,
		CookieClickSettle: 500 * time.Millisecond,
		UploadSettle:      1 * time.Second,
		DialogDelay:       1 * time.Second,
		ResultTimeout:     60 * time.Second,
		ResultSettle:      5 * time.Second,
	}
}

// ScriptFromConfig returns the default script with the configured portal
// URL and result timeout.
func ScriptFromConfig(cfg types.Config) Script {
	s := DefaultScript()
	if cfg.Portal.URL != "" {
		s.URL = cfg.Portal.URL
	}
	if cfg.Timing.ResultTimeout > 0 {
		s.ResultTimeout = cfg.Timing.ResultTimeout
	}
	return s
}
