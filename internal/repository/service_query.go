package repository

import (
	"fmt"
	"strings"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/query"
)

// ServiceSchema declares which service attributes a listing may filter, sort and select on.
var ServiceSchema = query.NewSchema("-createdAt",
	query.Field{Name: "id", Type: query.TypeUUID, Filterable: true, Selectable: true},
	query.Field{Name: "title", Type: query.TypeString, Filterable: true, Sortable: true, Selectable: true},
	query.Field{Name: "description", Type: query.TypeString, Filterable: true, Selectable: true},
	query.Field{Name: "category", Type: query.TypeEnum, Enum: categoryNames(), Filterable: true, Sortable: true, Selectable: true},
	query.Field{Name: "price", Type: query.TypeNumber, Filterable: true, Sortable: true, Selectable: true},
	query.Field{Name: "duration", Type: query.TypeInteger, Filterable: true, Sortable: true, Selectable: true},
	query.Field{Name: "rating", Type: query.TypeNumber, Filterable: true, Sortable: true, Selectable: true},
	query.Field{Name: "provider", Type: query.TypeUUID, Filterable: true, Selectable: true},
	query.Field{Name: "image", Type: query.TypeString, Filterable: true, Selectable: true},
	query.Field{Name: "availability", Selectable: true},
	query.Field{Name: "createdAt", Type: query.TypeTime, Filterable: true, Sortable: true, Selectable: true},
	query.Field{Name: "updatedAt", Type: query.TypeTime, Filterable: true, Sortable: true, Selectable: true},
)

// serviceColumns maps schema fields to SQL columns. Only names present here reach SQL.
var serviceColumns = map[string]string{
	"id":          "s.id",
	"title":       "s.title",
	"description": "s.description",
	"category":    "s.category",
	"price":       "s.price",
	"duration":    "s.duration",
	"rating":      "s.rating",
	"provider":    "s.provider_id",
	"image":       "s.image",
	"createdAt":   "s.created_at",
	"updatedAt":   "s.updated_at",
}

var sqlOperators = map[query.Operator]string{
	query.OpEq:  "=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

func categoryNames() []string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return names
}

const serviceSelect = `SELECT s.id, s.title, s.description, s.category, s.price, s.duration,
           s.availability_days, s.availability_start, s.availability_end, s.provider_id,
           s.image, s.rating, s.created_at, s.updated_at, u.id, u.name, u.email
    FROM services s
    LEFT JOIN users u ON u.id = s.provider_id`

// buildServiceListSQL renders a translated listing into a parameterised statement.
func buildServiceListSQL(q query.ListQuery) (string, []any, error) {
	clauses := []string{"1=1"}
	args := []any{}

	for _, cond := range q.Conditions {
		column, ok := serviceColumns[cond.Field]
		if !ok {
			return "", nil, fmt.Errorf("unmapped filter field %q", cond.Field)
		}
		if cond.Op == query.OpIn {
			values, _ := cond.Value.([]any)
			placeholders := make([]string, len(values))
			for i, v := range values {
				args = append(args, v)
				placeholders[i] = fmt.Sprintf("$%d", len(args))
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")))
			continue
		}
		op, ok := sqlOperators[cond.Op]
		if !ok {
			return "", nil, fmt.Errorf("unsupported operator %q", cond.Op)
		}
		args = append(args, cond.Value)
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", column, op, len(args)))
	}

	order := make([]string, 0, len(q.Sort)+1)
	for _, s := range q.Sort {
		column, ok := serviceColumns[s.Field]
		if !ok {
			return "", nil, fmt.Errorf("unmapped sort field %q", s.Field)
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		order = append(order, column+" "+dir)
	}
	order = append(order, "s.id ASC")

	args = append(args, q.Limit)
	limitIdx := len(args)
	args = append(args, q.Skip)
	offsetIdx := len(args)

	sql := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		serviceSelect, strings.Join(clauses, " AND "), strings.Join(order, ", "), limitIdx, offsetIdx)
	return sql, args, nil
}
