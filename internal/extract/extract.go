// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls the detached signature out of the signature archive
// into a working location.
package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/validardoc/pkg/types"
)

// SignatureExt is the extension of detached CMS signatures.
const SignatureExt = ".p7s"

var ErrSignatureEntryNotFound = errors.New("no " + SignatureExt + " entry in archive")

// Signature opens the zip archive at archivePath and writes the first entry
// whose name ends in .p7s (case-insensitive, central directory order) to
// destDir under the entry's base name. An existing file at the destination is
// replaced. An empty destDir means os.TempDir().
func Signature(archivePath, destDir string, logger *zap.Logger) (types.ExtractedSignature, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if destDir == "" {
		destDir = os.TempDir()
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return types.ExtractedSignature{}, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer r.Close()

	var entry *zip.File
	for _, f := range r.File {
		logger.Debug("archive entry", zap.String("name", f.Name))
		if entry == nil && !f.FileInfo().IsDir() && strings.HasSuffix(strings.ToLower(f.Name), SignatureExt) {
			entry = f
		}
	}
	if entry == nil {
		return types.ExtractedSignature{}, fmt.Errorf("%s: %w", archivePath, ErrSignatureEntryNotFound)
	}
	logger.Info("signature entry found", zap.String("entry", entry.Name))

	// Zip names always use forward slashes.
	destPath := filepath.Join(destDir, path.Base(entry.Name))
	if err := writeEntry(entry, destPath); err != nil {
		return types.ExtractedSignature{}, fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	logger.Info("signature extracted", zap.String("path", destPath))

	return types.ExtractedSignature{SignaturePath: destPath}, nil
}

// writeEntry copies the entry to a temporary file next to destPath and
// renames it into place.
func writeEntry(entry *zip.File, destPath string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening entry: %w", err)
	}
	defer rc.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".extract-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, rc)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing entry: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
