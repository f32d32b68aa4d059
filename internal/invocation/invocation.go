// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package invocation turns process arguments into a RunRequest. The desktop
// shell starts validardoc either with a custom URL
// (validardoc://validate?rowID=123&headless=true) or with bare key=value
// tokens carrying the same keys.
package invocation

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/validardoc/pkg/types"
)

// Scheme is the custom URL scheme registered for validardoc.
const Scheme = "validardoc://"

const (
	keyRowID    = "rowID"
	keyHeadless = "headless"
)

var (
	rowIDPattern    = regexp.MustCompile(`(?i)rowID=([^&\s]+)`)
	headlessPattern = regexp.MustCompile(`(?i)headless=([^&\s]+)`)
)

// Parse builds a RunRequest from args. Unknown arguments are ignored.
// A missing rowID yields an empty identifier; a missing headless flag
// yields an interactive run.
func Parse(args []string, logger *zap.Logger) types.RunRequest {
	if logger == nil {
		logger = zap.NewNop()
	}
	rowID := lookup(args, keyRowID, rowIDPattern, false, logger)
	headless := lookup(args, keyHeadless, headlessPattern, true, logger)
	return types.RunRequest{
		RowID:       rowID,
		Interactive: !strings.EqualFold(headless, "true"),
	}
}

// lookup returns the value of key, preferring the scheme URL's query and
// falling back to the first argument containing "key=". With keepEmpty, a
// URL that carries key with an empty value ends the search.
func lookup(args []string, key string, pattern *regexp.Regexp, keepEmpty bool, logger *zap.Logger) string {
	if raw, ok := find(args, func(a string) bool { return strings.HasPrefix(a, Scheme) }); ok {
		u, err := url.Parse(raw)
		if err != nil {
			logger.Warn("could not parse invocation URL", zap.String("arg", raw), zap.Error(err))
		} else if q := u.Query(); q.Get(key) != "" || (keepEmpty && q.Has(key)) {
			return q.Get(key)
		}
	}

	if raw, ok := find(args, func(a string) bool { return strings.Contains(a, key+"=") }); ok {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}
	return ""
}

func find(args []string, match func(string) bool) (string, bool) {
	for _, a := range args {
		if match(a) {
			return a, true
		}
	}
	return "", false
}
