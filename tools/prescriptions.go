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

// Controlled substances that require immediate escalation. Federal
// regulations prohibit the front desk from authorizing these refills.
var controlledSubstances = map[string]struct{}{
	"adderall": {}, "xanax": {}, "alprazolam": {}, "oxycodone": {}, "hydrocodone": {},
	"morphine": {}, "fentanyl": {}, "ritalin": {}, "methylphenidate": {}, "vyvanse": {},
	"lisdexamfetamine": {}, "ativan": {}, "lorazepam": {}, "klonopin": {}, "clonazepam": {},
	"valium": {}, "diazepam": {}, "ambien": {}, "zolpidem": {}, "tramadol": {},
	"codeine": {}, "percocet": {}, "vicodin": {},
}

// IsControlledSubstance reports whether the medication name matches a known
// controlled substance.
func IsControlledSubstance(medication string) bool {
	name := strings.ToLower(medication)
	for substance := range controlledSubstances {
		if strings.Contains(name, substance) {
			return true
		}
	}
	return false
}

func findPrescriptionsTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "find_prescriptions",
			Description: "Find all current prescriptions on file for the patient",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			var b strings.Builder
			b.WriteString("Here are your current prescriptions:\n\n")
			for _, rx := range store.Prescriptions() {
				fmt.Fprintf(&b, "- %s\n", rx.Medication)
				fmt.Fprintf(&b, "  Prescription ID: %s\n", rx.ID)
				fmt.Fprintf(&b, "  Dosage: %s\n", rx.Dosage)
				fmt.Fprintf(&b, "  Refills left: %d\n", rx.RefillsRemaining)
				fmt.Fprintf(&b, "  Last filled: %s\n", rx.LastFilled.Format("2006-01-02"))
				fmt.Fprintf(&b, "  Prescribed by: %s\n", rx.Prescriber)
				fmt.Fprintf(&b, "  Pharmacy: %s\n\n", rx.Pharmacy)
			}
			return Result{Text: b.String()}, nil
		},
	}
}

func checkRefillEligibilityTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "check_refill_eligibility",
			Description: "Check if a prescription is eligible for refill. Performs safety checks for controlled substances, refills remaining, expiration, and timing.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"prescription_id": {Type: genai.TypeString, Description: "The prescription ID, e.g. RX-001"},
				},
				Required: []string{"prescription_id"},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			id := stringArg(args, "prescription_id")

			rx, ok := store.Prescription(id)
			if !ok {
				return Result{
					Text: fmt.Sprintf("I couldn't find prescription %s. Please check the ID and try again, or I can connect you with someone who can help.", id),
				}, nil
			}

			if rx.Controlled || IsControlledSubstance(rx.Medication) {
				return Result{
					Text: fmt.Sprintf("%s is a controlled medication that requires direct provider authorization. "+
						"This is for your safety and follows federal regulations. I'm connecting you with a provider who can help.", rx.Medication),
					RequiresEscalation: true,
					EscalationReason:   "controlled_substance",
				}, nil
			}

			if rx.RefillsRemaining <= 0 {
				return Result{
					Text: fmt.Sprintf("Your prescription for %s doesn't have any refills left. "+
						"You'll need a new prescription from your provider. Let me connect you with them.", rx.Medication),
					RequiresEscalation: true,
					EscalationReason:   "no_refills",
				}, nil
			}

			now := store.Now()
			if now.After(rx.ExpirationDate) {
				return Result{
					Text: fmt.Sprintf("Your prescription for %s expired on %s. "+
						"You'll need a new prescription. I'm connecting you with your provider.",
						rx.Medication, rx.ExpirationDate.Format("2006-01-02")),
					RequiresEscalation: true,
					EscalationReason:   "expired",
				}, nil
			}

			// Insurance allows a refill once 80% of the days supply has elapsed.
			daysSinceFill := int(now.Sub(rx.LastFilled).Hours() / 24)
			refillAllowedAfter := rx.DaysSupply * 8 / 10
			if daysSinceFill < refillAllowedAfter {
				daysUntilEligible := refillAllowedAfter - daysSinceFill
				return Result{
					Text: fmt.Sprintf("Your %s was just filled on %s. "+
						"For your safety and insurance requirements, you can request a refill in about %d days. "+
						"If you need it sooner, I can connect you with your provider to discuss.",
						rx.Medication, rx.LastFilled.Format("2006-01-02"), daysUntilEligible),
				}, nil
			}

			return Result{
				Text: fmt.Sprintf("Good news! Your %s is eligible for refill.\n\n"+
					"Refills remaining after this one: %d\n"+
					"Prescription valid until: %s\n\n"+
					"Ready to submit the refill request?",
					rx.Medication, rx.RefillsRemaining-1, rx.ExpirationDate.Format("2006-01-02")),
			}, nil
		},
	}
}

func submitRefillRequestTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "submit_refill_request",
			Description: "Submit a refill request for an eligible prescription",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"prescription_id": {Type: genai.TypeString, Description: "The prescription ID, e.g. RX-001"},
				},
				Required: []string{"prescription_id"},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			id := stringArg(args, "prescription_id")

			rx, ok := store.Prescription(id)
			if !ok {
				return Result{
					Text: fmt.Sprintf("I couldn't find prescription %s. Please verify the ID.", id),
				}, nil
			}

			now := store.Now()
			confirmation := fmt.Sprintf("REF-%s-%s", id, now.Format("20060102"))
			readyDate := now.AddDate(0, 0, 2).Format("2006-01-02")
			store.RecordRefill(id)

			return Result{
				Text: fmt.Sprintf("Your refill request has been submitted!\n\n"+
					"Medication: %s\n"+
					"Confirmation number: %s\n"+
					"Pharmacy: %s, 123 Main St\n"+
					"Estimated ready date: %s\n\n"+
					"You'll get a text message when it's ready for pickup.",
					rx.Medication, confirmation, rx.Pharmacy, readyDate),
			}, nil
		},
	}
}
