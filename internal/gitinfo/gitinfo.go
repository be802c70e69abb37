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

// Package gitinfo reads source-control provenance for run records.
package gitinfo

import (
	"context"
	"os/exec"
	"strings"
)

// Unknown is reported when source-control metadata is unavailable.
const Unknown = "unknown"

// Info identifies the code revision an evaluation ran against.
type Info struct {
	Branch string
	Commit string
}

// Current returns the current branch and short commit hash. Collection is
// best-effort: outside a repository, or without git installed, both fields
// are [Unknown] and no error is returned.
func Current(ctx context.Context) Info {
	return Info{
		Branch: run(ctx, "rev-parse", "--abbrev-ref", "HEAD"),
		Commit: run(ctx, "rev-parse", "--short", "HEAD"),
	}
}

func run(ctx context.Context, args ...string) string {
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return Unknown
	}
	s := strings.TrimSpace(string(out))
	if s == "" {
		return Unknown
	}
	return s
}
