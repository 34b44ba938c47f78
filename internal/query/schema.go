package query

import (
	"strings"
)

// FieldType drives value coercion for a field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeInteger
	TypeEnum
	TypeUUID
	TypeTime
)

// Field declares one queryable attribute of a resource.
type Field struct {
	Name       string
	Type       FieldType
	Enum       []string
	Filterable bool
	Sortable   bool
	Selectable bool
}

// Ordered reports whether range operators apply to the field.
func (f Field) Ordered() bool {
	return f.Type == TypeNumber || f.Type == TypeInteger || f.Type == TypeTime
}

// Schema is the set of fields a listing accepts.
type Schema struct {
	fields      map[string]Field
	defaultSort []SortField
}

// NewSchema builds a schema. defaultSort uses the same syntax as the sort parameter.
func NewSchema(defaultSort string, fields ...Field) *Schema {
	s := &Schema{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	for _, part := range strings.Split(defaultSort, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		s.defaultSort = append(s.defaultSort, SortField{Field: strings.TrimPrefix(part, "-"), Desc: desc})
	}
	return s
}

// Field looks up a declared field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}
