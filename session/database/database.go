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

// Package database is a [session.Service] backed by a SQL database.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/session"
)

// sessionRecord is the schema for stored sessions.
type sessionRecord struct {
	ID        string `gorm:"primaryKey"`
	PatientID string `gorm:"index"`
	Messages  MessageList
	Created   time.Time
	Updated   time.Time `gorm:"index"`
}

func (sessionRecord) TableName() string { return "sessions" }

// Service is a session.Service backed by gorm.
type Service struct {
	db *gorm.DB
}

var _ session.Service = (*Service)(nil)

// Open opens (creating if needed) a SQLite-backed session store at path.
func Open(path string) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	return NewService(db)
}

// NewService wraps an existing gorm handle, migrating the schema.
func NewService(db *gorm.DB) (*Service, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate session schema: %w", err)
	}
	return &Service{db: db}, nil
}

func (s *Service) Create(ctx context.Context, patientID string) (*session.Session, error) {
	now := time.Now()
	rec := sessionRecord{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Created:   now,
		Updated:   now,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return rec.toSession(), nil
}

func (s *Service) Get(ctx context.Context, id string) (*session.Session, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return rec.toSession(), nil
}

func (s *Service) Append(ctx context.Context, id string, msgs ...agent.Message) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec sessionRecord
		err := tx.First(&rec, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		rec.Messages = append(rec.Messages, msgs...)
		rec.Updated = time.Now()
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return nil
	})
}

func (s *Service) List(ctx context.Context) ([]*session.Session, error) {
	var recs []sessionRecord
	if err := s.db.WithContext(ctx).Order("updated DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]*session.Session, len(recs))
	for i, rec := range recs {
		out[i] = rec.toSession()
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (rec sessionRecord) toSession() *session.Session {
	return &session.Session{
		ID:        rec.ID,
		PatientID: rec.PatientID,
		Messages:  []agent.Message(rec.Messages),
		Created:   rec.Created,
		Updated:   rec.Updated,
	}
}
