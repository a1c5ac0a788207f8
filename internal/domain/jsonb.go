package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StepDefinitions stores a template's ordered step list as a jsonb column.
type StepDefinitions []WorkflowStepDefinition

// VersionHistory stores a document's version list as a jsonb column,
// ordered newest-first.
type VersionHistory []DocumentVersion

// AttachmentList stores a document's attachments as a jsonb column.
type AttachmentList []Attachment

// StringList stores a list of strings as a jsonb column.
type StringList []string

func (s StepDefinitions) Value() (driver.Value, error) { return jsonbValue(s) }
func (s *StepDefinitions) Scan(src interface{}) error  { return jsonbScan(src, s) }

func (v VersionHistory) Value() (driver.Value, error) { return jsonbValue(v) }
func (v *VersionHistory) Scan(src interface{}) error  { return jsonbScan(src, v) }

func (a AttachmentList) Value() (driver.Value, error) { return jsonbValue(a) }
func (a *AttachmentList) Scan(src interface{}) error  { return jsonbScan(src, a) }

func (l StringList) Value() (driver.Value, error) { return jsonbValue(l) }
func (l *StringList) Scan(src interface{}) error  { return jsonbScan(src, l) }

func (w WorkflowInstance) Value() (driver.Value, error) { return jsonbValue(w) }
func (w *WorkflowInstance) Scan(src interface{}) error  { return jsonbScan(src, w) }

func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling jsonb column: %w", err)
	}
	return b, nil
}

func jsonbScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
