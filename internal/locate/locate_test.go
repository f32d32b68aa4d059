// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var base = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// writeAt creates name in dir with modification time base+offset.
func writeAt(t *testing.T, dir, name string, offset time.Duration) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
	mt := base.Add(offset)
	require.NoError(t, os.Chtimes(p, mt, mt))
	return p
}

func TestFind(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string)
		wantDoc     string
		wantArchive string
		wantErr     error
	}{
		{
			name: "document newest, archive second",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "report.pdf", 2*time.Minute)
				writeAt(t, dir, "signature.zip", 1*time.Minute)
				writeAt(t, dir, "old.txt", 0)
			},
			wantDoc:     "report.pdf",
			wantArchive: "signature.zip",
		},
		{
			name: "archive newest, document second",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "signature.zip", 2*time.Minute)
				writeAt(t, dir, "report.pdf", 1*time.Minute)
			},
			wantDoc:     "report.pdf",
			wantArchive: "signature.zip",
		},
		{
			name: "extensions match case-insensitively",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "REPORT.PDF", 2*time.Minute)
				writeAt(t, dir, "Signature.Zip", 1*time.Minute)
			},
			wantDoc:     "REPORT.PDF",
			wantArchive: "Signature.Zip",
		},
		{
			name:    "empty directory",
			setup:   func(t *testing.T, dir string) {},
			wantErr: ErrNotEnoughArtifacts,
		},
		{
			name: "single file",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "report.pdf", 0)
			},
			wantErr: ErrNotEnoughArtifacts,
		},
		{
			name: "subdirectories are not counted",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "report.pdf", 0)
				require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.zip"), 0o755))
			},
			wantErr: ErrNotEnoughArtifacts,
		},
		{
			name: "two documents on top hide an older valid pair",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "a.pdf", 4*time.Minute)
				writeAt(t, dir, "b.pdf", 3*time.Minute)
				writeAt(t, dir, "c.zip", 2*time.Minute)
				writeAt(t, dir, "d.pdf", 1*time.Minute)
			},
			wantErr: ErrMissingArchive,
		},
		{
			name: "two archives on top hide an older valid pair",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "a.zip", 4*time.Minute)
				writeAt(t, dir, "b.zip", 3*time.Minute)
				writeAt(t, dir, "c.pdf", 2*time.Minute)
			},
			wantErr: ErrMissingDocument,
		},
		{
			name: "stray third file newest breaks the pair",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "notes.txt", 3*time.Minute)
				writeAt(t, dir, "report.pdf", 2*time.Minute)
				writeAt(t, dir, "signature.zip", 1*time.Minute)
			},
			wantErr: ErrMissingArchive,
		},
		{
			name: "neither role present reports document first",
			setup: func(t *testing.T, dir string) {
				writeAt(t, dir, "a.txt", 2*time.Minute)
				writeAt(t, dir, "b.txt", 1*time.Minute)
			},
			wantErr: ErrMissingDocument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			got, err := Find(dir, zaptest.NewLogger(t))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got.DocumentPath)
				assert.Empty(t, got.SignatureArchivePath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.wantDoc), got.DocumentPath)
			assert.Equal(t, filepath.Join(dir, tt.wantArchive), got.SignatureArchivePath)
		})
	}
}

func TestFind_MissingDirectory(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotEnoughArtifacts)
}

func TestFind_DoesNotModifyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeAt(t, dir, "report.pdf", 2*time.Minute)
	writeAt(t, dir, "signature.zip", 1*time.Minute)

	before, err := Recent(dir)
	require.NoError(t, err)
	_, err = Find(dir, nil)
	require.NoError(t, err)
	after, err := Recent(dir)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRecent_OrdersNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeAt(t, dir, "b", 1*time.Minute)
	writeAt(t, dir, "c", 3*time.Minute)
	writeAt(t, dir, "a", 2*time.Minute)

	files, err := Recent(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{files[0].Name, files[1].Name, files[2].Name})
}
