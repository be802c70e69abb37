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

	"google.golang.org/genai"
)

// EscalateToHuman is the tool name the scorers look for when checking that a
// conversation was handed off.
const EscalateToHuman = "escalate_to_human"

func escalateToHumanTool() Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        EscalateToHuman,
			Description: "Escalate the conversation to a healthcare provider or human agent when needed. Provide reason and urgency level.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"reason":        {Type: genai.TypeString, Description: "Why the conversation needs a human"},
					"urgency_level": {Type: genai.TypeString, Description: "One of: low, normal, high"},
				},
				Required: []string{"reason"},
			},
		},
		Handler: func(ctx context.Context, store *Store, args map[string]any) (Result, error) {
			urgency := stringArg(args, "urgency_level")

			now := store.Now()
			ticketID := fmt.Sprintf("TH-2024-%s", now.Format("01021504"))
			agentName := "Healthcare Support Team"
			estimatedWait := "5-10 minutes"
			if urgency == "high" {
				agentName = "Dr. Sarah Johnson"
				estimatedWait = "2-5 minutes"
			}

			text := fmt.Sprintf("I've created a support ticket for you.\n\n"+
				"Ticket number: %s\n"+
				"You'll be connected to: %s\n"+
				"Estimated wait time: %s\n\n"+
				"Please hold while we connect you.",
				ticketID, agentName, estimatedWait)

			return Result{
				Text:               text,
				RequiresEscalation: true,
				EscalationReason:   stringArg(args, "reason"),
			}, nil
		},
	}
}
