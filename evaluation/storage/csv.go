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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jxnl/medical-agent/evaluation"
)

// PreviewLength bounds transcript text in the CSV export. The truncation
// is presentational only; the JSON record keeps the full transcript.
const PreviewLength = 200

// WriteCSV writes a row-per-case table mirroring the run record's results.
func WriteCSV(w io.Writer, record *evaluation.RunRecord) error {
	cw := csv.NewWriter(w)

	header := []string{
		"test_case_index", "description", "input",
		"should_escalate", "expected_tools", "expected_behavior",
		"tool_calls", "output_preview",
		"score", "passed", "status", "error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range record.Results {
		toolNames := make([]string, len(rec.ToolCalls))
		for i, call := range rec.ToolCalls {
			toolNames[i] = call.Name
		}

		var output strings.Builder
		for i, msg := range rec.Output {
			if i > 0 {
				output.WriteString(" / ")
			}
			fmt.Fprintf(&output, "%s: %s", msg.Role, msg.Content)
		}

		row := []string{
			strconv.Itoa(rec.TestCaseIndex),
			rec.Description,
			preview(rec.Input),
			strconv.FormatBool(rec.ShouldEscalate),
			strings.Join(rec.ExpectedTools, ";"),
			rec.ExpectedBehavior,
			strings.Join(toolNames, ";"),
			preview(output.String()),
			strconv.FormatFloat(rec.Score, 'f', 2, 64),
			strconv.FormatBool(rec.Passed),
			string(rec.Status),
			rec.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= PreviewLength {
		return s
	}
	return string(runes[:PreviewLength]) + "..."
}
