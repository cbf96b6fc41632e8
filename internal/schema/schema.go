package schema

import (
	"encoding/json"
	"fmt"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
)

// Column kinds
const (
	ColumnSingle = "single"
	ColumnGroup  = "group"
)

// Data types for single columns (closed set)
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeDate    = "date"
	TypeEmail   = "email"
	TypeURL     = "url"
	TypeOption  = "option"
	TypeFile    = "file"
	TypeBoolean = "boolean"
)

// Transition modes a template can declare in its metadata
const (
	TransitionNone         = ""
	TransitionContinuous   = "continuous"
	TransitionCarryForward = "carry_forward"
)

var dataTypes = map[string]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeDate:    true,
	TypeEmail:   true,
	TypeURL:     true,
	TypeOption:  true,
	TypeFile:    true,
	TypeBoolean: true,
}

// Validation holds the optional per-column constraints.
type Validation struct {
	Min               *float64 `json:"min,omitempty"`
	Max               *float64 `json:"max,omitempty"`
	MinLength         *int     `json:"min_length,omitempty"`
	MaxLength         *int     `json:"max_length,omitempty"`
	Pattern           string   `json:"pattern,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
	MaxFileSize       int64    `json:"max_file_size,omitempty"` // bytes
}

// Column is either a single leaf field or a named group of leaf fields.
// Groups nest exactly one level deep.
type Column struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name,omitempty"`
	Type        string      `json:"type"` // single | group
	DataType    string      `json:"data_type,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
	Options     []string    `json:"options,omitempty"`
	Columns     []Column    `json:"columns,omitempty"` // group children
}

// Section is one block of a template: display headers plus an ordered
// column list. Required sections must hold at least one row at submit time.
type Section struct {
	Headers  []string `json:"headers"`
	Columns  []Column `json:"columns"`
	Required bool     `json:"required,omitempty"`
}

// CarryRule selects which rows of an approved submission survive the year
// transition. A row passes when the named field equals one of the values.
// An empty rule list means every row is carried.
type CarryRule struct {
	Field  string   `json:"field"`
	Equals []string `json:"equals"`
}

// Metadata is the full persisted schema of a template.
type Metadata struct {
	Sections          []Section   `json:"sections"`
	TransitionMode    string      `json:"transition_mode,omitempty"` // continuous | carry_forward
	CarryForwardRules []CarryRule `json:"carry_forward_rules,omitempty"`
	ResetFields       []string    `json:"reset_fields,omitempty"`
}

// ParseMetadata decodes a stored jsonb document back into Metadata.
func ParseMetadata(raw []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, apperrors.NewSchemaError("", "metadata is not valid JSON: "+err.Error())
	}
	return &m, nil
}

// ValidateMetadata checks the whole schema tree before it is ever stored.
func ValidateMetadata(m *Metadata) error {
	if m == nil || len(m.Sections) == 0 {
		return apperrors.NewSchemaError("sections", "metadata must declare at least one section")
	}
	switch m.TransitionMode {
	case TransitionNone, TransitionContinuous, TransitionCarryForward:
	default:
		return apperrors.NewSchemaError("transition_mode", fmt.Sprintf("unknown transition mode %q", m.TransitionMode))
	}
	for i, sec := range m.Sections {
		path := fmt.Sprintf("sections[%d]", i)
		if len(sec.Headers) == 0 {
			return apperrors.NewSchemaError(path+".headers", "section must declare header strings")
		}
		if len(sec.Columns) == 0 {
			return apperrors.NewSchemaError(path+".columns", "section must declare at least one column")
		}
		seen := map[string]bool{}
		for j, col := range sec.Columns {
			colPath := fmt.Sprintf("%s.columns[%d]", path, j)
			if err := validateColumn(&col, colPath, false); err != nil {
				return err
			}
			if seen[col.Name] {
				return apperrors.NewSchemaError(colPath+".name", fmt.Sprintf("duplicate column name %q", col.Name))
			}
			seen[col.Name] = true
		}
	}
	return nil
}

func validateColumn(c *Column, path string, nested bool) error {
	if c.Name == "" {
		return apperrors.NewSchemaError(path+".name", "column name is required")
	}
	switch c.Type {
	case ColumnSingle:
		if !dataTypes[c.DataType] {
			return apperrors.NewSchemaError(path+".data_type", fmt.Sprintf("unknown data type %q", c.DataType))
		}
		if c.DataType == TypeOption && len(c.Options) == 0 {
			return apperrors.NewSchemaError(path+".options", "option column must declare a non-empty options list")
		}
	case ColumnGroup:
		if nested {
			// one level of nesting only
			return apperrors.NewSchemaError(path, "group columns cannot contain other groups")
		}
		if len(c.Columns) == 0 {
			return apperrors.NewSchemaError(path+".columns", "group column must declare nested columns")
		}
		seen := map[string]bool{}
		for k, child := range c.Columns {
			childPath := fmt.Sprintf("%s.columns[%d]", path, k)
			if child.Type == ColumnGroup {
				return apperrors.NewSchemaError(childPath, "group columns cannot contain other groups")
			}
			if err := validateColumn(&child, childPath, true); err != nil {
				return err
			}
			if seen[child.Name] {
				return apperrors.NewSchemaError(childPath+".name", fmt.Sprintf("duplicate column name %q", child.Name))
			}
			seen[child.Name] = true
		}
	default:
		return apperrors.NewSchemaError(path+".type", fmt.Sprintf("unknown column type %q", c.Type))
	}
	return nil
}
