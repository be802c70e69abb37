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

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jxnl/medical-agent/agent"
	"github.com/jxnl/medical-agent/model/anthropic"
	"github.com/jxnl/medical-agent/session"
	"github.com/jxnl/medical-agent/session/database"
)

func newChatCmd() *cobra.Command {
	var noPersist bool
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the telehealth agent interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := anthropic.NewModel(cfg.Model.Name, &anthropic.Config{
				MaxTokens: cfg.Model.MaxTokens,
			})
			if err != nil {
				return err
			}

			var sessions session.Service
			if noPersist {
				sessions = session.NewInMemoryService()
			} else {
				sessions, err = database.Open(cfg.Store.SessionsPath)
				if err != nil {
					return err
				}
			}

			var sess *session.Session
			if sessionID != "" {
				sess, err = sessions.Get(cmd.Context(), sessionID)
				if err != nil {
					return fmt.Errorf("resume session %s: %w", sessionID, err)
				}
			} else {
				sess, err = sessions.Create(cmd.Context(), "")
				if err != nil {
					return err
				}
			}

			a, err := agent.New(agent.Config{Model: m, History: sess.Messages})
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("Telehealth Assistant"))
			fmt.Println(faintStyle.Render("Type your question, or \"exit\" to leave."))
			fmt.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("you> ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "exit" || input == "quit" {
					break
				}

				response, err := streamTurn(cmd, a, input)
				if err != nil {
					fmt.Println(errorStyle.Render("error: " + err.Error()))
					continue
				}

				err = sessions.Append(cmd.Context(), sess.ID,
					agent.Message{Role: "user", Content: input},
					agent.Message{Role: "assistant", Content: response},
				)
				if err != nil {
					fmt.Println(errorStyle.Render("warning: session not saved: " + err.Error()))
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "don't save this conversation")
	cmd.Flags().StringVar(&sessionID, "session", "", "resume a saved session by id")
	return cmd
}

// streamTurn prints one agent turn as it arrives and returns the full
// response text.
func streamTurn(cmd *cobra.Command, a *agent.Telehealth, input string) (string, error) {
	var response string
	printing := false
	for event, err := range a.Stream(cmd.Context(), input) {
		if err != nil {
			return "", err
		}
		switch event.Type {
		case agent.EventText:
			if !printing {
				fmt.Print("\nagent> ")
				printing = true
			}
			fmt.Print(event.Text)
		case agent.EventToolUse:
			if printing {
				fmt.Println()
				printing = false
			}
			fmt.Println(toolStyle.Render("  [" + event.ToolName + "]"))
			if event.Escalated {
				fmt.Println(escalationStyle.Render("  ⚠ escalating to a human"))
			}
		case agent.EventDone:
			response = event.Response
		}
	}
	fmt.Println()
	fmt.Println()
	return response, nil
}
