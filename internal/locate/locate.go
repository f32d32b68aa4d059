// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds the document and its signature archive among the most
// recently modified files of a directory, usually the user's downloads.
//
// Only the two newest files are classified. If they do not form a
// document/archive pair the search fails, even when an older pair exists.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/validardoc/pkg/types"
)

const (
	// candidateWindow is how many recent files are listed in the log.
	candidateWindow = 10
	// pairWindow is how many of the newest files are classified.
	pairWindow = 2

	DocumentExt = ".pdf"
	ArchiveExt  = ".zip"
)

var (
	ErrNotEnoughArtifacts = errors.New("fewer than 2 files in directory")
	ErrMissingDocument    = errors.New("no document among the 2 most recent files")
	ErrMissingArchive     = errors.New("no signature archive among the 2 most recent files")
)

// File is a regular file seen by the locator.
type File struct {
	Name    string
	Path    string
	ModTime time.Time
}

// Recent lists the regular files of dir, newest first. Entries that
// vanish or cannot be stat'ed while listing are skipped.
func Recent(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{Name: entry.Name(), Path: p, ModTime: info.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// Find returns the document and signature archive among the two most
// recently modified regular files of dir. It never modifies the filesystem.
func Find(dir string, logger *zap.Logger) (types.DiscoveredArtifacts, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := Recent(dir)
	if err != nil {
		return types.DiscoveredArtifacts{}, err
	}
	logger.Info("scanned directory", zap.String("dir", dir), zap.Int("files", len(files)))

	recent := files
	if len(recent) > candidateWindow {
		recent = recent[:candidateWindow]
	}
	for i, f := range recent {
		logger.Debug("candidate",
			zap.Int("rank", i+1),
			zap.String("name", f.Name),
			zap.String("ext", ext(f.Name)),
			zap.Time("mod_time", f.ModTime))
	}

	if len(recent) < pairWindow {
		return types.DiscoveredArtifacts{}, fmt.Errorf("%s: %w", dir, ErrNotEnoughArtifacts)
	}

	var found types.DiscoveredArtifacts
	for _, f := range recent[:pairWindow] {
		switch ext(f.Name) {
		case DocumentExt:
			found.DocumentPath = f.Path
			logger.Info("document found", zap.String("name", f.Name))
		case ArchiveExt:
			found.SignatureArchivePath = f.Path
			logger.Info("signature archive found", zap.String("name", f.Name))
		}
	}

	if found.DocumentPath == "" {
		return types.DiscoveredArtifacts{}, fmt.Errorf("%s: %w", dir, ErrMissingDocument)
	}
	if found.SignatureArchivePath == "" {
		return types.DiscoveredArtifacts{}, fmt.Errorf("%s: %w", dir, ErrMissingArchive)
	}
	return found, nil
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
