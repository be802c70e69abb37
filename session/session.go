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

// Package session persists patient conversations so that a chat can be
// reviewed or resumed later.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jxnl/medical-agent/agent"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// Session is one patient conversation.
type Session struct {
	ID        string          `json:"id"`
	PatientID string          `json:"patient_id,omitempty"`
	Messages  []agent.Message `json:"messages"`
	Created   time.Time       `json:"created"`
	Updated   time.Time       `json:"updated"`
}

// Service stores and retrieves sessions.
type Service interface {
	Create(ctx context.Context, patientID string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// Append adds messages to an existing session and bumps its Updated time.
	Append(ctx context.Context, id string, msgs ...agent.Message) error
	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryService is a Service that keeps sessions in process memory.
// Useful for tests and for chats that don't need to survive the process.
type InMemoryService struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewInMemoryService creates an empty InMemoryService.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (s *InMemoryService) Create(ctx context.Context, patientID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Created:   now,
		Updated:   now,
	}
	s.sessions[sess.ID] = sess
	return cloneSession(sess), nil
}

func (s *InMemoryService) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(sess), nil
}

func (s *InMemoryService) Append(ctx context.Context, id string, msgs ...agent.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Messages = append(sess.Messages, msgs...)
	sess.Updated = s.now()
	return nil
}

func (s *InMemoryService) List(ctx context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Updated.After(out[j].Updated) })
	return out, nil
}

func (s *InMemoryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func cloneSession(sess *Session) *Session {
	out := *sess
	out.Messages = append([]agent.Message(nil), sess.Messages...)
	return &out
}
