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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jxnl/medical-agent/agent"
)

// ErrDataFormat indicates a test case file is missing required structure.
var ErrDataFormat = errors.New("evaluation: malformed dataset")

// Expected-behavior tags understood by the knowledge scorer.
const (
	BehaviorShouldSearch            = "should_search"
	BehaviorShouldEscalate          = "should_escalate"
	BehaviorShouldSearchAndEscalate = "should_search_and_escalate"
	BehaviorShouldSearchAmbiguous   = "should_search_ambiguous"
	BehaviorShouldClarify           = "should_clarify"
)

// TestCase is one labeled scenario: a scripted conversation plus the policy
// outcome the agent is expected to produce. A case is identified by its
// ordinal position in its Dataset.
type TestCase struct {
	Messages          []agent.Message `json:"messages"`
	ShouldEscalate    bool            `json:"should_escalate"`
	ExpectedTools     []string        `json:"expected_tools"`
	ExpectedBehavior  string          `json:"expected_behavior"`
	ShouldFindResults bool            `json:"should_find_results"`
	Description       string          `json:"description,omitempty"`
}

// UnmarshalJSON applies field defaults before decoding, so cases authored
// for one scorer stay usable with another.
func (tc *TestCase) UnmarshalJSON(data []byte) error {
	type alias TestCase
	tmp := alias{
		ExpectedBehavior:  BehaviorShouldSearch,
		ShouldFindResults: true,
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*tc = TestCase(tmp)
	return nil
}

// Input returns the concatenated user-side script, for report rows.
func (tc *TestCase) Input() string {
	var parts []string
	for _, msg := range tc.Messages {
		if msg.Role == "user" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, " | ")
}

// Dataset is a named, ordered collection of test cases. Immutable once
// loaded; shared read-only across concurrent case executions.
type Dataset struct {
	Name      string     `json:"name"`
	TestCases []TestCase `json:"test_cases"`
}

// LoadDataset reads a dataset from a JSON or YAML file. Two shapes are
// accepted: an object with "name" and "test_cases", or a bare array of
// cases, in which case the file's base name becomes the dataset name.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDataFormat, path, err)
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ds, err := ParseDataset(data, stem)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset decodes a JSON dataset document. Bare-array documents take
// fallbackName as their dataset name.
func ParseDataset(data []byte, fallbackName string) (*Dataset, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDataFormat)
	}

	var ds Dataset
	if trimmed[0] == '[' {
		if err := json.Unmarshal(data, &ds.TestCases); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
		}
		ds.Name = fallbackName
	} else {
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
		}
	}

	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	if ds.Name == "" {
		return fmt.Errorf("%w: missing dataset name", ErrDataFormat)
	}
	if ds.TestCases == nil {
		return fmt.Errorf("%w: missing test_cases", ErrDataFormat)
	}
	for i, tc := range ds.TestCases {
		if len(tc.Messages) == 0 {
			return fmt.Errorf("%w: test case %d has no messages", ErrDataFormat, i)
		}
		for j, msg := range tc.Messages {
			if msg.Role == "" {
				return fmt.Errorf("%w: test case %d message %d has no role", ErrDataFormat, i, j)
			}
		}
	}
	return nil
}

// yamlToJSON re-encodes a YAML document as JSON so that one decode path,
// including TestCase defaults, serves both formats.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
