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

package gitinfo

import "testing"

func TestCurrentNeverEmpty(t *testing.T) {
	// Inside a checkout the fields carry real values; anywhere else they
	// must be "unknown", never empty and never an error.
	info := Current(t.Context())
	if info.Branch == "" || info.Commit == "" {
		t.Errorf("Current() = %+v, want non-empty fields", info)
	}
}

func TestCurrentOutsideRepository(t *testing.T) {
	t.Chdir(t.TempDir())
	info := Current(t.Context())
	if info.Branch != Unknown || info.Commit != Unknown {
		t.Skipf("running inside a repository: %+v", info)
	}
}
