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

// Package storage provides persistence backends for evaluation run records.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jxnl/medical-agent/evaluation"
)

// FileStorage persists run records as JSON in a directory:
//
//	<basePath>/
//	  results/
//	    <runID>.json
//	    <runID>.csv
//
// The JSON file is the authoritative record; a CSV row-per-case export is
// written alongside it for cross-run diffing.
type FileStorage struct {
	mu       sync.RWMutex
	basePath string
}

// NewFileStorage creates a file-based storage instance rooted at basePath.
func NewFileStorage(basePath string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "results"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &FileStorage{basePath: basePath}, nil
}

// SaveRunRecord stores a run record, along with its CSV export.
func (f *FileStorage) SaveRunRecord(ctx context.Context, record *evaluation.RunRecord) error {
	if record == nil || record.RunID == "" {
		return evaluation.ErrInvalidInput
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	if err := os.WriteFile(f.recordPath(record.RunID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write run record file: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(f.basePath, "results", record.RunID+".csv"))
	if err != nil {
		return fmt.Errorf("failed to create run CSV file: %w", err)
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, record); err != nil {
		return fmt.Errorf("failed to write run CSV: %w", err)
	}
	return nil
}

// GetRunRecord retrieves a run record by run ID.
func (f *FileStorage) GetRunRecord(ctx context.Context, runID string) (*evaluation.RunRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.recordPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, evaluation.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read run record file: %w", err)
	}

	var record evaluation.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// ListRunRecords returns all stored run records, oldest first.
func (f *FileStorage) ListRunRecords(ctx context.Context) ([]evaluation.RunRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(f.basePath, "results"))
	if err != nil {
		if os.IsNotExist(err) {
			return []evaluation.RunRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	records := []evaluation.RunRecord{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.basePath, "results", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read run record file: %w", err)
		}
		var record evaluation.RunRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", entry.Name(), err)
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RunTimestamp.Before(records[j].RunTimestamp)
	})
	return records, nil
}

func (f *FileStorage) recordPath(runID string) string {
	return filepath.Join(f.basePath, "results", runID+".json")
}
