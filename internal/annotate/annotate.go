// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate stamps the validation verdict as a two-line footer on
// every page of a copy of the source document.
package annotate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	vtypes "github.com/pdiddy/validardoc/pkg/types"
)

// ErrAnnotation marks a failure to produce the annotated copy.
var ErrAnnotation = errors.New("annotation failed")

const (
	fontName = "Helvetica"
	fontSize = 10

	// Distances in points from the bottom edge to each line's baseline.
	line1Offset = 18
	line2Offset = 6

	outputSuffix = "_assinatura.pdf"
)

var configOnce sync.Once

// Annotator writes stamped copies into a directory.
type Annotator struct {
	dir    string
	logger *zap.Logger
}

// New returns an Annotator writing to dir. An empty dir means os.TempDir().
func New(dir string, logger *zap.Logger) *Annotator {
	if dir == "" {
		dir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// pdfcpu otherwise creates a config directory under the user's home.
	configOnce.Do(api.DisableConfigDir)
	return &Annotator{dir: dir, logger: logger}
}

// FooterLines returns the footer for outcome under the given certification line.
func FooterLines(certification string, outcome vtypes.ValidationOutcome) (string, string) {
	line2 := fmt.Sprintf("por %s, em %s. Estado da assinatura: %s",
		outcome.SignerName, outcome.SignedAt, outcome.Status)
	return certification, line2
}

// OutputPath returns where the stamped copy of docPath is written.
func (a *Annotator) OutputPath(docPath string) string {
	base := filepath.Base(docPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(a.dir, base+outputSuffix)
}

// Annotate writes a copy of docPath with line1 and line2 centered near the
// bottom of every page. An empty line2 is skipped. The source is never
// modified.
func (a *Annotator) Annotate(docPath, line1, line2 string) (vtypes.AnnotatedDocument, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return vtypes.AnnotatedDocument{}, fmt.Errorf("%w: reading %s: %v", ErrAnnotation, docPath, err)
	}

	conf := model.NewDefaultConfiguration()
	for _, l := range []struct {
		text   string
		offset int
	}{
		{line1, line1Offset},
		{line2, line2Offset},
	} {
		if l.text == "" {
			continue
		}
		data, err = stamp(data, l.text, l.offset, conf)
		if err != nil {
			return vtypes.AnnotatedDocument{}, fmt.Errorf("%w: %v", ErrAnnotation, err)
		}
	}

	out := a.OutputPath(docPath)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return vtypes.AnnotatedDocument{}, fmt.Errorf("%w: writing %s: %v", ErrAnnotation, out, err)
	}
	a.logger.Info("annotated document written", zap.String("path", out))
	return vtypes.AnnotatedDocument{OutputPath: out}, nil
}

// stamp draws one line of text on every page at offset points above the
// bottom center.
func stamp(pdf []byte, text string, offset int, conf *model.Configuration) ([]byte, error) {
	desc := fmt.Sprintf(
		"fontname:%s, points:%d, position:bc, offset:0 %d, scalefactor:1 abs, rotation:0, fillcolor:#000000, opacity:1",
		fontName, fontSize, offset)
	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("building stamp: %w", err)
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(pdf), &buf, nil, wm, conf); err != nil {
		return nil, fmt.Errorf("stamping: %w", err)
	}
	return buf.Bytes(), nil
}
