// Copyright 2025 The medical-agent Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/evaluation"
)

func sampleRecord(runID string, ts time.Time) *evaluation.RunRecord {
	return &evaluation.RunRecord{
		DatasetName:  "refills",
		RunID:        runID,
		RunTimestamp: ts,
		GitBranch:    "main",
		GitCommit:    "abc1234",
		EvalType:     "escalation",
		Total:        1,
		Passed:       1,
		Accuracy:     1.0,
		AverageScore: 1.0,
		AgentVersion: "0.1.0",
		Results: []evaluation.ScoreRecord{{
			TestCaseIndex: 0,
			Input:         "refill my lisinopril",
			ToolCalls:     []agent.ToolCall{{Name: "check_refill_eligibility"}},
			Output: []agent.Message{
				{Role: "user", Content: "refill my lisinopril"},
				{Role: "assistant", Content: strings.Repeat("Good news! ", 40)},
			},
			Score:        1.0,
			Passed:       true,
			Status:       evaluation.EvalStatusPassed,
			AgentVersion: "0.1.0",
		}},
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	ctx := t.Context()
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	want := sampleRecord("20241017_140000", time.Date(2024, 10, 17, 14, 0, 0, 0, time.UTC))
	if err := fs.SaveRunRecord(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := fs.GetRunRecord(ctx, "20241017_140000")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoragePersistedRecordIsNotTruncated(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	if err != nil {
		t.Fatal(err)
	}

	record := sampleRecord("r1", time.Now().UTC())
	long := strings.Repeat("x", 5*PreviewLength)
	record.Results[0].Output[1].Content = long
	if err := fs.SaveRunRecord(ctx, record); err != nil {
		t.Fatal(err)
	}

	got, err := fs.GetRunRecord(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Results[0].Output[1].Content != long {
		t.Error("JSON record must keep the full transcript")
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "results", "r1.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(csvData), long) {
		t.Error("CSV export must truncate transcript text")
	}
}

func TestFileStorageNotFound(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.GetRunRecord(t.Context(), "missing"); !errors.Is(err, evaluation.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFileStorageListOldestFirst(t *testing.T) {
	ctx := t.Context()
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 10, 17, 14, 0, 0, 0, time.UTC)
	// Saved out of order on purpose.
	for _, r := range []*evaluation.RunRecord{
		sampleRecord("r2", base.Add(time.Hour)),
		sampleRecord("r1", base),
	} {
		if err := fs.SaveRunRecord(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	records, err := fs.ListRunRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].RunID != "r1" || records[1].RunID != "r2" {
		t.Errorf("list order = %v, want [r1 r2]", runIDs(records))
	}
}

func TestFileStorageInvalidInput(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.SaveRunRecord(t.Context(), nil); !errors.Is(err, evaluation.ErrInvalidInput) {
		t.Errorf("nil record: err = %v, want ErrInvalidInput", err)
	}
	if err := fs.SaveRunRecord(t.Context(), &evaluation.RunRecord{}); !errors.Is(err, evaluation.ErrInvalidInput) {
		t.Errorf("missing run ID: err = %v, want ErrInvalidInput", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	ctx := t.Context()
	ms := NewMemoryStorage()

	record := sampleRecord("r1", time.Now().UTC())
	if err := ms.SaveRunRecord(ctx, record); err != nil {
		t.Fatal(err)
	}

	got, err := ms.GetRunRecord(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.DatasetName != "refills" {
		t.Errorf("dataset = %q, want refills", got.DatasetName)
	}

	if _, err := ms.GetRunRecord(ctx, "missing"); !errors.Is(err, evaluation.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	records, err := ms.ListRunRecords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestWriteCSVPreview(t *testing.T) {
	record := sampleRecord("r1", time.Now().UTC())
	record.Results[0].Output[1].Content = strings.Repeat("a", PreviewLength+50)

	var sb strings.Builder
	if err := WriteCSV(&sb, record); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row", len(lines))
	}
	if !strings.Contains(lines[1], "...") {
		t.Error("long transcript should be truncated with an ellipsis")
	}
	if strings.Contains(lines[1], strings.Repeat("a", PreviewLength+1)) {
		t.Error("preview exceeds bound")
	}
}

func runIDs(records []evaluation.RunRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.RunID
	}
	return ids
}
