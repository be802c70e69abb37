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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jxnl/medical-agent/session/database"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect saved conversations",
	}
	cmd.AddCommand(newSessionsListCmd(), newSessionsShowCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved conversations, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := database.Open(cfg.Store.SessionsPath)
			if err != nil {
				return err
			}
			sessions, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println(faintStyle.Render("no saved sessions"))
				return nil
			}
			for _, sess := range sessions {
				fmt.Printf("%s  %s  %d messages\n",
					sess.ID,
					sess.Updated.Local().Format("2006-01-02 15:04"),
					len(sess.Messages))
			}
			return nil
		},
	}
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print one conversation in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := database.Open(cfg.Store.SessionsPath)
			if err != nil {
				return err
			}
			sess, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("Session " + sess.ID))
			fmt.Println(faintStyle.Render(sess.Created.Local().Format("2006-01-02 15:04")))
			fmt.Println()
			for _, msg := range sess.Messages {
				prefix := msg.Role + "> "
				if msg.Role == "assistant" {
					prefix = "agent> "
				}
				fmt.Println(prefix + msg.Content)
				fmt.Println()
			}
			return nil
		},
	}
}
