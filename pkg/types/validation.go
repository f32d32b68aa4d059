// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the validardoc pipeline:
// the run request, the artifacts found on disk, the portal verdict and the
// run record kept in the history store.
package types

import "time"

// ErroSentinel is the value reported for any field the portal did not render.
const ErroSentinel = "Erro"

// Status is the portal verdict for a signature.
type Status string

const (
	StatusApproved Status = "Aprovada"
	StatusRejected Status = "Reprovada"
	StatusError    Status = ErroSentinel
)

// String returns the wire form sent in the callback's resultValid parameter.
func (s Status) String() string { return string(s) }

// Mode names the browser mode of a run.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeHeadless    Mode = "headless"
)

// RunRequest holds what the invocation asked for. It is immutable for the run.
type RunRequest struct {
	// RowID is the opaque identifier echoed back in the callback. May be empty.
	RowID string `json:"row_id" yaml:"row_id"`

	// Interactive selects a visible browser window. False means headless.
	Interactive bool `json:"interactive" yaml:"interactive"`
}

// Mode reports the browser mode requested.
func (r RunRequest) Mode() Mode {
	if r.Interactive {
		return ModeInteractive
	}
	return ModeHeadless
}

// DiscoveredArtifacts holds the document and its signature archive found by
// the locator. Both paths point to existing regular files.
type DiscoveredArtifacts struct {
	DocumentPath         string `json:"document_path" yaml:"document_path"`
	SignatureArchivePath string `json:"signature_archive_path" yaml:"signature_archive_path"`
}

// ExtractedSignature is the detached signature written to the temp directory.
type ExtractedSignature struct {
	SignaturePath string `json:"signature_path" yaml:"signature_path"`
}

// ValidationOutcome is the verdict parsed from the portal's result page.
// Fields the page did not render hold ErroSentinel.
type ValidationOutcome struct {
	SignerName string `json:"signer_name" yaml:"signer_name"`
	SignedAt   string `json:"signed_at" yaml:"signed_at"`
	Status     Status `json:"status" yaml:"status"`
}

// ErrorOutcome returns the outcome reported when the pipeline could not
// produce a verdict.
func ErrorOutcome() ValidationOutcome {
	return ValidationOutcome{
		SignerName: ErroSentinel,
		SignedAt:   ErroSentinel,
		Status:     StatusError,
	}
}

// AnnotatedDocument is the stamped copy of the source document.
type AnnotatedDocument struct {
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// RunRecord is one row of the local run history.
type RunRecord struct {
	ID         string    `json:"id" yaml:"id"`
	RowID      string    `json:"row_id" yaml:"row_id"`
	Mode       Mode      `json:"mode" yaml:"mode"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	FinalState string    `json:"final_state" yaml:"final_state"`
	Status     Status    `json:"status" yaml:"status"`
	SignerName string    `json:"signer_name,omitempty" yaml:"signer_name,omitempty"`
	SignedAt   string    `json:"signed_at,omitempty" yaml:"signed_at,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	ExitCode   int       `json:"exit_code" yaml:"exit_code"`
	OutputPath string    `json:"output_path,omitempty" yaml:"output_path,omitempty"`
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
