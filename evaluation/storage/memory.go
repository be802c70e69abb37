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
	"context"
	"sort"
	"sync"

	"github.com/jxnl/medical-agent/evaluation"
)

// MemoryStorage keeps run records in process memory. Useful for tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]evaluation.RunRecord
}

// NewMemoryStorage creates an empty in-memory storage instance.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]evaluation.RunRecord)}
}

func (m *MemoryStorage) SaveRunRecord(ctx context.Context, record *evaluation.RunRecord) error {
	if record == nil || record.RunID == "" {
		return evaluation.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.RunID] = *record
	return nil
}

func (m *MemoryStorage) GetRunRecord(ctx context.Context, runID string) (*evaluation.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[runID]
	if !ok {
		return nil, evaluation.ErrNotFound
	}
	return &record, nil
}

func (m *MemoryStorage) ListRunRecords(ctx context.Context) ([]evaluation.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]evaluation.RunRecord, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RunTimestamp.Before(records[j].RunTimestamp)
	})
	return records, nil
}
