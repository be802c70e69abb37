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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file in reach

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Eval.Threshold != 0.8 {
		t.Errorf("threshold = %v, want 0.8", cfg.Eval.Threshold)
	}
	if cfg.Eval.CaseTimeout != 3*time.Minute {
		t.Errorf("case timeout = %v, want 3m", cfg.Eval.CaseTimeout)
	}
	if cfg.Eval.LenientCredit != 0.8 || cfg.Eval.PlausibleCredit != 0.5 {
		t.Errorf("credits = %v/%v, want 0.8/0.5", cfg.Eval.LenientCredit, cfg.Eval.PlausibleCredit)
	}
	if cfg.Model.Name == "" {
		t.Error("model name must have a default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telehealth.yaml")
	content := `model:
  name: claude-haiku-4-5
eval:
  threshold: 0.9
  plausible_credit: 0.4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.Name != "claude-haiku-4-5" {
		t.Errorf("model = %q", cfg.Model.Name)
	}
	if cfg.Eval.Threshold != 0.9 {
		t.Errorf("threshold = %v, want 0.9", cfg.Eval.Threshold)
	}
	if cfg.Eval.PlausibleCredit != 0.4 {
		t.Errorf("plausible credit = %v, want 0.4", cfg.Eval.PlausibleCredit)
	}
	// Untouched keys keep their defaults.
	if cfg.Eval.LenientCredit != 0.8 {
		t.Errorf("lenient credit = %v, want default 0.8", cfg.Eval.LenientCredit)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telehealth.yaml")
	if err := os.WriteFile(path, []byte("eval:\n  threshold: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "threshold") {
		t.Errorf("err = %v, want threshold validation error", err)
	}
}

func TestLoadMissingNamedFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicitly named missing config file must error")
	}
}
