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

package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/session"
)

func openTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestServiceRoundTrip(t *testing.T) {
	ctx := t.Context()
	svc := openTestService(t)

	sess, err := svc.Create(ctx, "patient-1")
	if err != nil {
		t.Fatal(err)
	}

	msgs := []agent.Message{
		{Role: "user", Content: "can I refill my lisinopril?"},
		{Role: "assistant", Content: "Good news! Your prescription is eligible for refill."},
	}
	if err := svc.Append(ctx, sess.ID, msgs...); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PatientID != "patient-1" {
		t.Errorf("patient ID = %q, want patient-1", got.PatientID)
	}
	if diff := cmp.Diff(msgs, got.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceNotFound(t *testing.T) {
	ctx := t.Context()
	svc := openTestService(t)

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if err := svc.Append(ctx, "missing", agent.Message{Role: "user", Content: "x"}); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Append = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Delete = %v, want ErrNotFound", err)
	}
}

func TestServiceListAndDelete(t *testing.T) {
	ctx := t.Context()
	svc := openTestService(t)

	a, _ := svc.Create(ctx, "")
	b, _ := svc.Create(ctx, "")

	sessions, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	sessions, err = svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != b.ID {
		t.Errorf("after delete, list = %+v, want only %s", sessions, b.ID)
	}
}

func TestMessageListScanEmpty(t *testing.T) {
	var ml MessageList
	if err := ml.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if ml == nil || len(ml) != 0 {
		t.Errorf("Scan(nil) = %v, want empty list", ml)
	}

	v, err := MessageList(nil).Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "[]" {
		t.Errorf("Value() = %v, want []", v)
	}
}
