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

package knowledge

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jxnl/medical-agent/tools"
)

// SearchKnowledgeBase is the tool name the knowledge scorer looks for when
// checking that a conversation consulted the knowledge base.
const SearchKnowledgeBase = "search_knowledge_base"

// SearchTool returns the knowledge-base search tool for inclusion in a
// conversation's toolset.
func SearchTool() tools.Tool {
	return tools.Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        SearchKnowledgeBase,
			Description: "Search the knowledge base for general information about insurance, medications, and billing. Use for routine informational questions only.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "What to search for"},
				},
				Required: []string{"query"},
			},
		},
		Handler: func(ctx context.Context, store *tools.Store, args map[string]any) (tools.Result, error) {
			query, _ := args["query"].(string)

			matches := Search(query, DefaultTopK, DefaultThreshold)
			if len(matches) == 0 {
				return tools.Result{
					Text: "I couldn't find specific information about that in our knowledge base. Let me connect you with someone who can help.",
				}, nil
			}

			var b strings.Builder
			b.WriteString("I found some information that might help:\n\n")
			for _, m := range matches {
				fmt.Fprintf(&b, "%s\n%s\n\n", m.Document.Title, m.Document.Content)
			}
			return tools.Result{Text: b.String()}, nil
		},
	}
}
