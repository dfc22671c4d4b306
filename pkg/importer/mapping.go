package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Column value types understood by the converter.
const (
	TypeText    = "text"
	TypeInteger = "integer"
	TypeDecimal = "decimal"
)

// Mapping is the YAML document that binds workbook sheets to inventory
// features. Sheets not listed here are skipped during import.
type Mapping struct {
	Version int                     `yaml:"version"`
	Sheets  map[string]SheetMapping `yaml:"sheets"`
}

// SheetMapping describes how the rows of one sheet become items.
type SheetMapping struct {
	// Parent is the destination location for every row of the sheet,
	// unless the row carries its own value in ParentColumn.
	Parent string `yaml:"parent"`

	// CodeColumn names the header of the column holding item codes.
	// When empty (or when a row has no value) the server assigns one.
	CodeColumn string `yaml:"code_column"`

	// ParentColumn names the header of an optional per-row destination
	// column overriding Parent.
	ParentColumn string `yaml:"parent_column"`

	// Features maps column headers to feature bindings.
	Features map[string]ColumnMapping `yaml:"features"`

	// Defaults are features applied to every row before the columns;
	// a mapped column with a value overrides its default.
	Defaults map[string]any `yaml:"defaults"`
}

// ColumnMapping binds one column to one feature.
type ColumnMapping struct {
	Feature string `yaml:"feature"`
	Type    string `yaml:"type"`
}

// LoadMapping reads and validates a YAML mapping.
func LoadMapping(r io.Reader) (*Mapping, error) {
	var mapping Mapping
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&mapping); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return &mapping, nil
}

// LoadMappingFile reads and validates a YAML mapping from a file.
func LoadMappingFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping: %w", err)
	}
	defer f.Close()
	return LoadMapping(f)
}

// Validate checks the mapping for holes that would make every row fail:
// sheets with no feature bindings, bindings without a feature name, or
// unknown column types.
func (m *Mapping) Validate() error {
	var result *multierror.Error

	if len(m.Sheets) == 0 {
		result = multierror.Append(result, fmt.Errorf("mapping declares no sheets"))
	}
	for name, sheet := range m.Sheets {
		if len(sheet.Features) == 0 && len(sheet.Defaults) == 0 {
			result = multierror.Append(result, fmt.Errorf("sheet %q: no feature columns or defaults", name))
		}
		if sheet.Parent == "" && sheet.ParentColumn == "" {
			result = multierror.Append(result, fmt.Errorf("sheet %q: no parent or parent_column", name))
		}
		for header, col := range sheet.Features {
			if strings.TrimSpace(col.Feature) == "" {
				result = multierror.Append(result, fmt.Errorf("sheet %q: column %q has no feature name", name, header))
			}
			switch col.Type {
			case "", TypeText, TypeInteger, TypeDecimal:
			default:
				result = multierror.Append(result, fmt.Errorf("sheet %q: column %q has unknown type %q", name, header, col.Type))
			}
		}
	}
	return result.ErrorOrNil()
}
