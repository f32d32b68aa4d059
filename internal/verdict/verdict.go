// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verdict reads the portal's rendered result text into a
// ValidationOutcome. Absent data is reported as the "Erro" sentinel, never
// as an error.
package verdict

import (
	"regexp"
	"strings"

	"github.com/pdiddy/validardoc/pkg/types"
)

var (
	signerPattern   = regexp.MustCompile(`(?i)Assinado por:\s*(.+)`)
	signedAtPattern = regexp.MustCompile(`(?i)Data da assinatura:\s*([^\n\r]+)`)
	approvedPattern = regexp.MustCompile(`(?i)Assinatura aprovada`)
	rejectedPattern = regexp.MustCompile(`(?i)Assinatura reprovada`)
)

// Parse extracts signer, signing date and verdict from the page text.
// The approved phrase is checked before the rejected one.
func Parse(pageText string) types.ValidationOutcome {
	return types.ValidationOutcome{
		SignerName: capture(signerPattern, pageText),
		SignedAt:   capture(signedAtPattern, pageText),
		Status:     classify(pageText),
	}
}

func capture(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return types.ErroSentinel
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return types.ErroSentinel
	}
	return v
}

func classify(text string) types.Status {
	switch {
	case approvedPattern.MatchString(text):
		return types.StatusApproved
	case rejectedPattern.MatchString(text):
		return types.StatusRejected
	default:
		return types.StatusError
	}
}
