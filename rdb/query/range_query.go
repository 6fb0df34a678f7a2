package query

import (
	"fmt"
	"strings"
)

// RangeQuery 范围查询，未设置的端点不参与筛选
type RangeQuery struct {
	Field string `cfg:"field" validate:"required"`
	Gt    any    `cfg:"gt"`
	Gte   any    `cfg:"gte"`
	Lt    any    `cfg:"lt"`
	Lte   any    `cfg:"lte"`
}

func (q *RangeQuery) Type() QueryType {
	return QueryTypeRange
}

func (q *RangeQuery) ToSQL() (string, []any, error) {
	if err := checkField(q.Field); err != nil {
		return "", nil, err
	}

	var conditions []string
	var args []any
	for _, bound := range []struct {
		op    string
		value any
	}{
		{">", q.Gt}, {">=", q.Gte}, {"<", q.Lt}, {"<=", q.Lte},
	} {
		if bound.value == nil {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s %s ?", q.Field, bound.op))
		args = append(args, bound.value)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}
