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
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/jxnl/medical-agent/agent"
)

// MessageList is a []agent.Message column that handles dialect-specific
// JSON serialization by implementing gorm.Serializer.
type MessageList []agent.Message

func (MessageList) GormDataType() string {
	return "text"
}

func (MessageList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "LONGTEXT"
	default:
		return ""
	}
}

// Value implements the gorm.Serializer Value method.
func (ml MessageList) Value() (driver.Value, error) {
	if ml == nil {
		ml = MessageList{} // Serialize as '[]' instead of NULL
	}
	b, err := json.Marshal(ml)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the gorm.Serializer Scan method.
func (ml *MessageList) Scan(value any) error {
	if value == nil {
		*ml = MessageList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON value: %T", value)
	}

	if len(bytes) == 0 {
		*ml = MessageList{}
		return nil
	}
	return json.Unmarshal(bytes, ml)
}

func (ml MessageList) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	data, _ := json.Marshal(ml)
	return gorm.Expr("?", string(data))
}
