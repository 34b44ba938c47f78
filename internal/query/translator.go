// Package query turns listing query strings into typed filter, projection,
// sort and pagination specs.
//
// Keys follow a small grammar: "field" for equality or "field[op]" where op is
// one of gt, gte, lt, lte, in. Fields are checked against a Schema and values
// are coerced to the declared field type.
package query

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// Operator is a comparison applied by a Condition.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var reserved = map[string]struct{}{"select": {}, "sort": {}, "page": {}, "limit": {}}

var operators = map[string]Operator{
	"gt": OpGt, "gte": OpGte, "lt": OpLt, "lte": OpLte, "in": OpIn,
}

var keyPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)(?:\[([A-Za-z]+)\])?$`)

// Condition is one predicate over a field. Value holds the coerced scalar,
// or a []any for OpIn.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// SortField orders results by one field.
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery is the translated form of a listing request.
type ListQuery struct {
	Conditions []Condition
	Projection []string
	Sort       []SortField
	Page       int
	Limit      int
	Skip       int
}

// Translate converts raw query parameters into a ListQuery validated against schema.
func Translate(params map[string]string, schema *Schema) (ListQuery, error) {
	q := ListQuery{
		Page:  parsePositive(params["page"], DefaultPage),
		Limit: parsePositive(params["limit"], DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Skip = (q.Page - 1) * q.Limit

	keys := make([]string, 0, len(params))
	for k := range params {
		if _, skip := reserved[k]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := strings.TrimSpace(params[k])
		if raw == "" {
			continue
		}
		cond, err := parseCondition(k, raw, schema)
		if err != nil {
			return ListQuery{}, err
		}
		q.Conditions = append(q.Conditions, cond)
	}

	projection, err := parseSelect(params["select"], schema)
	if err != nil {
		return ListQuery{}, err
	}
	q.Projection = projection

	sortSpec, err := parseSort(params["sort"], schema)
	if err != nil {
		return ListQuery{}, err
	}
	q.Sort = sortSpec

	return q, nil
}

func parseCondition(key, raw string, schema *Schema) (Condition, error) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return Condition{}, apperrors.NewValidationError(fmt.Sprintf("Invalid query parameter %q", key), nil)
	}
	name, opToken := m[1], m[2]

	field, ok := schema.Field(name)
	if !ok || !field.Filterable {
		return Condition{}, apperrors.NewValidationError(fmt.Sprintf("Unknown filter field %q", name), nil)
	}

	op := OpEq
	if opToken != "" {
		op, ok = operators[strings.ToLower(opToken)]
		if !ok {
			return Condition{}, apperrors.NewValidationError(fmt.Sprintf("Unsupported operator %q", opToken), nil)
		}
	}
	if op != OpEq && op != OpIn && !field.Ordered() {
		return Condition{}, apperrors.NewValidationError(
			fmt.Sprintf("Operator %q is not supported for field %q", op, name), nil)
	}

	if op == OpIn {
		parts := strings.Split(raw, ",")
		values := make([]any, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := coerce(field, part)
			if err != nil {
				return Condition{}, err
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return Condition{}, apperrors.NewValidationError(fmt.Sprintf("Empty list for %q", key), nil)
		}
		return Condition{Field: name, Op: op, Value: values}, nil
	}

	v, err := coerce(field, raw)
	if err != nil {
		return Condition{}, err
	}
	return Condition{Field: name, Op: op, Value: v}, nil
}

func coerce(field Field, raw string) (any, error) {
	invalid := func() error {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid value %q for field %q", raw, field.Name), nil)
	}
	switch field.Type {
	case TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid()
		}
		return f, nil
	case TypeInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalid()
		}
		return n, nil
	case TypeEnum:
		for _, allowed := range field.Enum {
			if raw == allowed {
				return raw, nil
			}
		}
		return nil, invalid()
	case TypeUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalid()
		}
		return id.String(), nil
	case TypeTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.DateOnly, raw); err == nil {
			return t, nil
		}
		return nil, invalid()
	default:
		return raw, nil
	}
}

func parseSelect(raw string, schema *Schema) ([]string, error) {
	var fields []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, ok := schema.Field(part)
		if !ok || !f.Selectable {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown select field %q", part), nil)
		}
		fields = append(fields, part)
	}
	return fields, nil
}

func parseSort(raw string, schema *Schema) ([]SortField, error) {
	var fields []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		f, ok := schema.Field(name)
		if !ok || !f.Sortable {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown sort field %q", name), nil)
		}
		fields = append(fields, SortField{Field: name, Desc: desc})
	}
	if len(fields) == 0 {
		fields = append(fields, schema.defaultSort...)
	}
	return fields, nil
}

// parsePositive reads a page/limit value. Missing values use def; unparseable or
// non-positive values floor at 1.
func parsePositive(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
