// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package run sequences one validation: locate the artifacts, extract the
// signature, walk the portal, report the verdict, stamp the document and
// decide the exit code. It owns the browser session's lifetime.
package run

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/validardoc/internal/annotate"
	"github.com/pdiddy/validardoc/internal/extract"
	"github.com/pdiddy/validardoc/internal/locate"
	"github.com/pdiddy/validardoc/internal/portal"
	"github.com/pdiddy/validardoc/internal/verdict"
	"github.com/pdiddy/validardoc/pkg/types"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// recordTimeout bounds writing the history record.
const recordTimeout = 5 * time.Second

// Launcher starts the browser.
type Launcher interface {
	Launch(ctx context.Context, opts portal.LaunchOptions) (portal.BrowserSession, error)
}

// Walker drives the portal form on a page.
type Walker interface {
	Walk(ctx context.Context, page portal.Page, documentPath, signaturePath string) (*portal.Submission, error)
	AwaitResult(ctx context.Context, page portal.Page, sub *portal.Submission) (string, error)
}

// Notifier reports the verdict. It never fails the run.
type Notifier interface {
	Notify(ctx context.Context, rowID string, status types.Status)
}

// Annotator writes the stamped copy of the document.
type Annotator interface {
	Annotate(docPath, line1, line2 string) (types.AnnotatedDocument, error)
}

// Recorder stores the outcome of a run.
type Recorder interface {
	Record(ctx context.Context, rec types.RunRecord) error
}

// Deps are the collaborators of a Controller. Locate and Extract default
// to the real implementations; Viewer and Recorder are optional.
type Deps struct {
	Locate    func(dir string, logger *zap.Logger) (types.DiscoveredArtifacts, error)
	Extract   func(archivePath, destDir string, logger *zap.Logger) (types.ExtractedSignature, error)
	Browser   Launcher
	Driver    Walker
	Notifier  Notifier
	Annotator Annotator
	Viewer    func(path string) error
	Recorder  Recorder
}

// Controller runs validations.
type Controller struct {
	cfg    types.Config
	deps   Deps
	logger *zap.Logger
}

// New returns a Controller for cfg.
func New(cfg types.Config, deps Deps, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Locate == nil {
		deps.Locate = locate.Find
	}
	if deps.Extract == nil {
		deps.Extract = extract.Signature
	}
	return &Controller{cfg: cfg, deps: deps, logger: logger}
}

// Run performs one validation for req and returns the process exit code.
func (c *Controller) Run(ctx context.Context, req types.RunRequest) int {
	id := uuid.NewString()
	logger := c.logger.With(
		zap.String("run_id", id),
		zap.String("row_id", req.RowID),
		zap.String("mode", string(req.Mode())),
	)
	r := &execution{
		Controller: c,
		req:        req,
		logger:     logger,
		machine:    newMachine(logger),
		record: types.RunRecord{
			ID:        id,
			RowID:     req.RowID,
			Mode:      req.Mode(),
			StartedAt: time.Now(),
		},
	}

	logger.Info("validation started")
	code := r.execute(ctx)

	r.record.FinishedAt = time.Now()
	r.record.FinalState = r.machine.state.String()
	r.record.ExitCode = code
	c.save(ctx, logger, r.record)

	logger.Info("validation finished",
		zap.Int("exit_code", code),
		zap.Duration("elapsed", r.record.Duration()))
	return code
}

func (c *Controller) save(ctx context.Context, logger *zap.Logger, rec types.RunRecord) {
	if c.deps.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := c.deps.Recorder.Record(ctx, rec); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

// execution is the state of a single Run.
type execution struct {
	*Controller
	req     types.RunRequest
	logger  *zap.Logger
	machine *machine
	record  types.RunRecord
}

func (r *execution) execute(ctx context.Context) int {
	arts, err := r.deps.Locate(r.cfg.DownloadsDir, r.logger)
	if err != nil {
		return r.fail(ctx, nil, err)
	}
	r.logger.Info("artifacts found",
		zap.String("document", arts.DocumentPath),
		zap.String("archive", arts.SignatureArchivePath))

	r.machine.to(Extracting)
	sig, err := r.deps.Extract(arts.SignatureArchivePath, r.cfg.TempDir, r.logger)
	if err != nil {
		return r.fail(ctx, nil, err)
	}

	r.machine.to(Launching)
	sess, err := r.deps.Browser.Launch(ctx, portal.LaunchOptions{
		Interactive:    r.req.Interactive,
		ViewportWidth:  r.cfg.Browser.ViewportWidth,
		ViewportHeight: r.cfg.Browser.ViewportHeight,
	})
	if err != nil {
		return r.fail(ctx, nil, err)
	}

	r.machine.to(Walking)
	page := sess.Page()
	var text string
	gone, err := guard(ctx, sess, func(ctx context.Context) error {
		sub, err := r.deps.Driver.Walk(ctx, page, arts.DocumentPath, sig.SignaturePath)
		if err != nil {
			return err
		}
		r.machine.to(AwaitingResult)
		text, err = r.deps.Driver.AwaitResult(ctx, page, sub)
		return err
	})
	if gone {
		return r.disconnected()
	}
	if err != nil {
		return r.fail(ctx, sess, err)
	}

	r.machine.to(Reporting)
	outcome := verdict.Parse(text)
	r.record.Status = outcome.Status
	r.record.SignerName = outcome.SignerName
	r.record.SignedAt = outcome.SignedAt
	r.logger.Info("verdict parsed",
		zap.String("signer", outcome.SignerName),
		zap.String("signed_at", outcome.SignedAt),
		zap.Stringer("status", outcome.Status))
	gone, _ = guard(ctx, sess, func(ctx context.Context) error {
		r.deps.Notifier.Notify(ctx, r.req.RowID, outcome.Status)
		return nil
	})
	if gone {
		return r.disconnected()
	}

	r.machine.to(Annotating)
	line1, line2 := annotate.FooterLines(r.cfg.Footer.Certification, outcome)
	doc, err := r.deps.Annotator.Annotate(arts.DocumentPath, line1, line2)
	if err != nil {
		r.logger.Warn("annotation skipped", zap.Error(err))
	} else {
		r.record.OutputPath = doc.OutputPath
	}
	if isClosed(sess.Disconnected()) {
		return r.disconnected()
	}

	r.machine.to(Closing)
	if !r.req.Interactive {
		if !r.close(ctx, sess) {
			return ExitFailure
		}
		if outcome.Status == types.StatusError {
			return ExitFailure
		}
		return ExitOK
	}
	return r.linger(ctx, sess, doc)
}

// linger shows the annotated document and keeps the browser open until
// the user closes it or the linger timeout expires.
func (r *execution) linger(ctx context.Context, sess portal.BrowserSession, doc types.AnnotatedDocument) int {
	if r.cfg.OpenViewer && doc.OutputPath != "" && r.deps.Viewer != nil {
		if err := r.deps.Viewer(doc.OutputPath); err != nil {
			r.logger.Warn("failed to open viewer", zap.String("path", doc.OutputPath), zap.Error(err))
		}
	}

	r.logger.Info("waiting for the browser to be closed", zap.Duration("timeout", r.cfg.Timing.Linger))
	timer := time.NewTimer(r.cfg.Timing.Linger)
	defer timer.Stop()
	select {
	case <-sess.Disconnected():
		r.logger.Info("browser closed by user")
		return ExitOK
	case <-timer.C:
		r.logger.Info("linger timeout expired, closing browser")
	case <-ctx.Done():
	}
	if !r.close(ctx, sess) {
		return ExitFailure
	}
	return ExitOK
}

// fail reports StatusError and shuts down. An interactive run keeps the
// browser visible for the grace period first. sess may be nil.
func (r *execution) fail(ctx context.Context, sess portal.BrowserSession, err error) int {
	stage := r.machine.state
	serr := &StageError{Stage: stage, Err: err}
	r.machine.to(Failed)
	r.record.Status = types.StatusError
	r.record.Error = serr.Error()
	r.logger.Error("validation failed", zap.Stringer("stage", stage), zap.Error(err))

	r.machine.to(Reporting)
	// The run context may already be cancelled by a signal; the client
	// timeout still bounds the request.
	r.deps.Notifier.Notify(context.WithoutCancel(ctx), r.req.RowID, types.StatusError)

	r.machine.to(Closing)
	if r.req.Interactive {
		var gone <-chan struct{}
		if sess != nil {
			gone = sess.Disconnected()
		}
		r.logger.Info("closing after grace period", zap.Duration("grace", r.cfg.Timing.GracePeriod))
		timer := time.NewTimer(r.cfg.Timing.GracePeriod)
		defer timer.Stop()
		select {
		case <-gone:
			r.logger.Info("browser closed by user")
			return ExitOK
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	if sess != nil {
		r.close(ctx, sess)
	}
	return ExitFailure
}

// disconnected ends a run whose browser went away. Nothing is reported.
func (r *execution) disconnected() int {
	r.logger.Info("browser closed by user, exiting")
	r.machine.to(Closing)
	return ExitOK
}

// close shuts the browser down within the close timeout. It reports
// whether the browser closed in time.
func (r *execution) close(ctx context.Context, sess portal.BrowserSession) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.Timing.CloseTimeout)
	defer cancel()
	if err := sess.Close(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Error("browser did not close in time", zap.Duration("timeout", r.cfg.Timing.CloseTimeout))
		} else {
			r.logger.Error("closing browser", zap.Error(err))
		}
		return false
	}
	return true
}

// guard runs fn with a context that is cancelled if the browser
// disconnects. It reports whether the disconnect happened, in which case
// fn's error is dropped. fn has always returned when guard does, so state
// fn touched is safe to read afterwards.
func guard(ctx context.Context, sess portal.BrowserSession, fn func(ctx context.Context) error) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		if isClosed(sess.Disconnected()) {
			return true, nil
		}
		return false, err
	case <-sess.Disconnected():
		cancel()
		<-done
		return true, nil
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
