// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package portal

import "errors"

var (
	ErrNoBrowserFound      = errors.New("no compatible browser found")
	ErrBrowserLaunchFailed = errors.New("browser launch failed")
	ErrUploadTargetMissing = errors.New("upload target missing")

	// ErrNavigationTimeout is logged when the result page does not navigate
	// in time. The walk continues and reads the page in place.
	ErrNavigationTimeout = errors.New("navigation timeout")
)
