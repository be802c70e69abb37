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

package tools

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Check-in opens 24 hours before the appointment; cancellations inside the
// same window may incur fees and go to the scheduling team instead.
const appointmentWindowHours = 24

func findAppointmentsTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "find_appointments",
			Description: "Find all upcoming appointments for the patient",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			var b strings.Builder
			b.WriteString("Here are your upcoming appointments:\n\n")
			for _, apt := range store.Appointments() {
				fmt.Fprintf(&b, "- %s\n", apt.Type)
				fmt.Fprintf(&b, "  Appointment ID: %s\n", apt.ID)
				fmt.Fprintf(&b, "  Date: %s at %s\n", apt.Scheduled.Format("2006-01-02"), apt.Scheduled.Format("3:04 PM"))
				fmt.Fprintf(&b, "  Provider: %s\n", apt.Provider)
				fmt.Fprintf(&b, "  Location: %s\n", apt.Location)
				fmt.Fprintf(&b, "  Status: %s\n\n", apt.Status)
			}
			return Result{Text: b.String()}, nil
		},
	}
}

func checkInForAppointmentTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "check_in_for_appointment",
			Description: "Check in for an appointment. Only works within 24 hours before the appointment time.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"appointment_id": {Type: genai.TypeString, Description: "The appointment ID, e.g. APT-2024-1001"},
				},
				Required: []string{"appointment_id"},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			id := stringArg(args, "appointment_id")

			apt, ok := store.Appointment(id)
			if !ok {
				return Result{
					Text: fmt.Sprintf("I couldn't find appointment %s. Please check the ID, or I can connect you with someone who can help.", id),
				}, nil
			}

			if apt.CheckedIn {
				return Result{
					Text: fmt.Sprintf("You're already checked in for your %s appointment. Please have a seat in the waiting area.", apt.Type),
				}, nil
			}

			now := store.Now()
			hoursUntil := apt.Scheduled.Sub(now).Hours()

			if hoursUntil > appointmentWindowHours {
				return Result{
					Text: fmt.Sprintf("You can check in starting 24 hours before your appointment. "+
						"Your %s is scheduled for %s at %s. "+
						"Check back closer to your appointment time!",
						apt.Type, apt.Scheduled.Format("2006-01-02"), apt.Scheduled.Format("3:04 PM")),
				}, nil
			}

			if hoursUntil < 0 {
				return Result{
					Text: fmt.Sprintf("This appointment was scheduled for %s at %s. "+
						"If you need to reschedule, let me connect you with our scheduling team.",
						apt.Scheduled.Format("2006-01-02"), apt.Scheduled.Format("3:04 PM")),
					RequiresEscalation: true,
					EscalationReason:   "missed_appointment",
				}, nil
			}

			store.MarkCheckedIn(id)
			queueNumber := fmt.Sprintf("Q-%s", now.Format("1504"))

			return Result{
				Text: fmt.Sprintf("You're all checked in!\n\n"+
					"Appointment: %s\n"+
					"Provider: %s\n"+
					"Time: %s\n"+
					"Location: %s\n"+
					"Queue number: %s\n\n"+
					"Please have a seat in the waiting area. The provider will call you when ready.",
					apt.Type, apt.Provider, apt.Scheduled.Format("3:04 PM"), apt.Location, queueNumber),
			}, nil
		},
	}
}

func cancelAppointmentTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "cancel_appointment",
			Description: "Cancel an appointment. Must be at least 24 hours before the appointment to avoid fees.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"appointment_id": {Type: genai.TypeString, Description: "The appointment ID, e.g. APT-2024-1001"},
					"reason":         {Type: genai.TypeString, Description: "Why the appointment is being cancelled"},
				},
				Required: []string{"appointment_id"},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			id := stringArg(args, "appointment_id")

			apt, ok := store.Appointment(id)
			if !ok {
				return Result{
					Text: fmt.Sprintf("I couldn't find appointment %s. Please check the ID.", id),
				}, nil
			}

			now := store.Now()
			if apt.Scheduled.Sub(now).Hours() < appointmentWindowHours {
				return Result{
					Text: fmt.Sprintf("Your %s is less than 24 hours away. "+
						"Our cancellation policy may apply fees for late cancellations. "+
						"Let me connect you with our scheduling team to discuss your options.", apt.Type),
					RequiresEscalation: true,
					EscalationReason:   "late_cancellation",
				}, nil
			}

			store.MarkCancelled(id)
			confirmation := fmt.Sprintf("CXL-%s-%s", id, now.Format("20060102"))

			return Result{
				Text: fmt.Sprintf("Your appointment has been cancelled.\n\n"+
					"Cancelled appointment: %s\n"+
					"Provider: %s\n"+
					"Was scheduled for: %s at %s\n"+
					"Cancellation confirmation: %s\n\n"+
					"If you need to reschedule, just let me know and I can help with that.",
					apt.Type, apt.Provider, apt.Scheduled.Format("2006-01-02"), apt.Scheduled.Format("3:04 PM"), confirmation),
			}, nil
		},
	}
}
