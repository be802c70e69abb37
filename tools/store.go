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

// Package tools provides the telehealth front-desk toolset: prescription
// refills, appointment check-in and cancellation, and escalation to a human
// provider. All patient records live in a Store instance that is created per
// session, so concurrent conversations never observe each other's state.
package tools

import (
	"sync"
	"time"
)

// Prescription is one medication on file for the patient.
type Prescription struct {
	ID               string
	Medication       string
	Dosage           string
	RefillsRemaining int
	LastFilled       time.Time
	ExpirationDate   time.Time
	DaysSupply       int
	Controlled       bool
	Prescriber       string
	Pharmacy         string
}

// Appointment is one upcoming appointment for the patient.
type Appointment struct {
	ID        string
	Type      string
	Provider  string
	Location  string
	Status    string
	Scheduled time.Time
	CheckedIn bool
	Cancelled bool
}

// Store holds the mock patient records backing the toolset. Each Store is an
// isolated instance; tools mutate it only through its methods.
type Store struct {
	mu            sync.Mutex
	prescriptions []*Prescription
	appointments  []*Appointment

	now func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock overrides the store's time source. Used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store seeded with the demo patient's records. Record
// dates are relative to the store's clock so eligibility windows stay
// meaningful regardless of when the process runs.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	now := s.now()

	s.prescriptions = []*Prescription{
		{
			ID:               "RX-001",
			Medication:       "Lisinopril 10mg",
			Dosage:           "Once daily",
			RefillsRemaining: 2,
			LastFilled:       now.AddDate(0, 0, -45),
			ExpirationDate:   now.AddDate(0, 11, 0),
			DaysSupply:       30,
			Prescriber:       "Dr. Emily Chen",
			Pharmacy:         "HealthPlus Pharmacy",
		},
		{
			ID:               "RX-002",
			Medication:       "Metformin 500mg",
			Dosage:           "Twice daily with meals",
			RefillsRemaining: 0,
			LastFilled:       now.AddDate(0, 0, -90),
			ExpirationDate:   now.AddDate(0, 10, 0),
			DaysSupply:       30,
			Prescriber:       "Dr. Emily Chen",
			Pharmacy:         "HealthPlus Pharmacy",
		},
		{
			ID:               "RX-003",
			Medication:       "Atorvastatin 20mg",
			Dosage:           "Once daily at bedtime",
			RefillsRemaining: 3,
			LastFilled:       now.AddDate(0, 0, -14),
			ExpirationDate:   now.AddDate(1, 0, 0),
			DaysSupply:       30,
			Prescriber:       "Dr. Michael Park",
			Pharmacy:         "HealthPlus Pharmacy",
		},
	}

	s.appointments = []*Appointment{
		{
			ID:        "APT-2024-1001",
			Type:      "Annual Physical",
			Provider:  "Dr. Emily Chen",
			Location:  "Main Clinic - Room 203",
			Status:    "Confirmed",
			Scheduled: now.Add(20 * time.Hour),
		},
		{
			ID:        "APT-2024-1002",
			Type:      "Follow-up Visit",
			Provider:  "Dr. Michael Park",
			Location:  "Cardiology Center - Suite 400",
			Status:    "Confirmed",
			Scheduled: now.AddDate(0, 0, 7),
		},
		{
			ID:        "APT-2024-1003",
			Type:      "Lab Work",
			Provider:  "LabCorp",
			Location:  "Lab Services - Building B",
			Status:    "Pending",
			Scheduled: now.AddDate(0, 0, 16),
		},
	}

	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Prescriptions returns a snapshot of the patient's prescriptions.
func (s *Store) Prescriptions() []Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Prescription, 0, len(s.prescriptions))
	for _, rx := range s.prescriptions {
		out = append(out, *rx)
	}
	return out
}

// Prescription looks up one prescription by ID.
func (s *Store) Prescription(id string) (Prescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rx := range s.prescriptions {
		if rx.ID == id {
			return *rx, true
		}
	}
	return Prescription{}, false
}

// RecordRefill decrements the refill count and stamps the fill date for a
// prescription. The caller is expected to have checked eligibility first.
func (s *Store) RecordRefill(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rx := range s.prescriptions {
		if rx.ID == id {
			rx.RefillsRemaining--
			rx.LastFilled = s.now()
			return true
		}
	}
	return false
}

// Appointments returns a snapshot of the patient's appointments, cancelled
// ones excluded.
func (s *Store) Appointments() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Appointment, 0, len(s.appointments))
	for _, apt := range s.appointments {
		if apt.Cancelled {
			continue
		}
		out = append(out, *apt)
	}
	return out
}

// Appointment looks up one appointment by ID.
func (s *Store) Appointment(id string) (Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, apt := range s.appointments {
		if apt.ID == id && !apt.Cancelled {
			return *apt, true
		}
	}
	return Appointment{}, false
}

// MarkCheckedIn flags an appointment as checked in.
func (s *Store) MarkCheckedIn(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, apt := range s.appointments {
		if apt.ID == id && !apt.Cancelled {
			apt.CheckedIn = true
			return true
		}
	}
	return false
}

// MarkCancelled flags an appointment as cancelled.
func (s *Store) MarkCancelled(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, apt := range s.appointments {
		if apt.ID == id && !apt.Cancelled {
			apt.Cancelled = true
			apt.Status = "Cancelled"
			return true
		}
	}
	return false
}
