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

package evaluation

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested run record was not found.
	ErrNotFound = errors.New("evaluation: not found")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("evaluation: invalid input")
)

// Storage defines persistence for run records. Records are written once at
// the end of a run and never mutated afterward.
type Storage interface {
	// SaveRunRecord stores a run record keyed by its run ID.
	SaveRunRecord(ctx context.Context, record *RunRecord) error

	// GetRunRecord retrieves a run record by run ID.
	GetRunRecord(ctx context.Context, runID string) (*RunRecord, error)

	// ListRunRecords returns all stored run records, oldest first.
	ListRunRecords(ctx context.Context) ([]RunRecord, error)
}
