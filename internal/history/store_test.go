package history

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/validardoc/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

var base = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func record(id, rowID string, offset time.Duration, status types.Status) types.RunRecord {
	return types.RunRecord{
		ID:         id,
		RowID:      rowID,
		Mode:       types.ModeHeadless,
		StartedAt:  base.Add(offset),
		FinishedAt: base.Add(offset + 12*time.Second),
		FinalState: "Closing",
		Status:     status,
		SignerName: "Jane Doe",
		SignedAt:   "01/01/2024",
		OutputPath: "/dl/report_assinatura.pdf",
	}
}

// --- tests ---

func TestRecordAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, rec := range []types.RunRecord{
		record("a", "R1", 0, types.StatusApproved),
		record("b", "R2", time.Minute, types.StatusRejected),
		record("c", "R1", 2*time.Minute, types.StatusError),
	} {
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record(%s): %v", rec.ID, err)
		}
	}

	got, err := store.Recent(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].ID != "c" || got[2].ID != "a" {
		t.Errorf("order = %s,%s,%s, want newest first", got[0].ID, got[1].ID, got[2].ID)
	}
	if !got[2].StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", got[2].StartedAt, base)
	}
	if got[2].Duration() != 12*time.Second {
		t.Errorf("Duration = %v, want 12s", got[2].Duration())
	}
	if got[1].Status != types.StatusRejected {
		t.Errorf("Status = %q, want Reprovada", got[1].Status)
	}
}

func TestRecentFilters(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c", "d"} {
		row := "R1"
		if i%2 == 1 {
			row = "R2"
		}
		if err := store.Record(ctx, record(id, row, time.Duration(i)*time.Minute, types.StatusApproved)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"limit", QueryOptions{Limit: 2}, []string{"d", "c"}},
		{"row", QueryOptions{RowID: "R2"}, []string{"d", "b"}},
		{"row and limit", QueryOptions{RowID: "R1", Limit: 1}, []string{"c"}},
		{"unknown row", QueryOptions{RowID: "nope"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Recent(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestRecordReplacesSameID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := record("a", "R1", 0, types.StatusError)
	if err := store.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Status = types.StatusApproved
	rec.ExitCode = 0
	if err := store.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.Recent(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Status != types.StatusApproved {
		t.Fatalf("got %+v, want one approved record", got)
	}
}

func TestRecordRejectsEmptyID(t *testing.T) {
	store := testStore(t)
	if err := store.Record(context.Background(), types.RunRecord{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(context.Background(), record("a", "R1", 0, types.StatusApproved)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	got, err := store.Recent(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records after reopen, want 1", len(got))
	}
}

func TestExport(t *testing.T) {
	records := []types.RunRecord{record("a", "R1", 0, types.StatusApproved)}

	var y bytes.Buffer
	if err := WriteYAML(&y, records); err != nil {
		t.Fatal(err)
	}
	var fromYAML []types.RunRecord
	if err := yaml.Unmarshal(y.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 1 || fromYAML[0].Status != types.StatusApproved {
		t.Errorf("YAML round trip = %+v", fromYAML)
	}

	var j bytes.Buffer
	if err := WriteJSON(&j, nil); err != nil {
		t.Fatal(err)
	}
	var fromJSON []types.RunRecord
	if err := json.Unmarshal(j.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if fromJSON == nil || len(fromJSON) != 0 {
		t.Errorf("empty export = %q, want []", j.String())
	}
}
