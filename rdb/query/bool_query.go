package query

import (
	"fmt"
	"strings"
)

// BoolQuery 布尔查询
type BoolQuery struct {
	Must           []Query
	Should         []Query
	MustNot        []Query
	MinShouldMatch *int
}

func (q *BoolQuery) Type() QueryType {
	return QueryTypeBool
}

func (q *BoolQuery) ToSQL() (string, []any, error) {
	var conditions []string
	var args []any

	if len(q.Must) > 0 {
		sqls, queryArgs, err := toSQLs(q.Must)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, "("+strings.Join(sqls, " AND ")+")")
		args = append(args, queryArgs...)
	}

	if len(q.Should) > 0 {
		sqls, queryArgs, err := toSQLs(q.Should)
		if err != nil {
			return "", nil, err
		}
		// MinShouldMatch 不为 1 时按满足的条件数计数
		if q.MinShouldMatch != nil && *q.MinShouldMatch != 1 {
			cases := make([]string, len(sqls))
			for i, sql := range sqls {
				cases[i] = fmt.Sprintf("CASE WHEN (%s) THEN 1 ELSE 0 END", sql)
			}
			conditions = append(conditions, fmt.Sprintf("(%s) >= %d", strings.Join(cases, " + "), *q.MinShouldMatch))
		} else {
			conditions = append(conditions, "("+strings.Join(sqls, " OR ")+")")
		}
		args = append(args, queryArgs...)
	}

	if len(q.MustNot) > 0 {
		sqls, queryArgs, err := toSQLs(q.MustNot)
		if err != nil {
			return "", nil, err
		}
		for i, sql := range sqls {
			sqls[i] = "NOT (" + sql + ")"
		}
		conditions = append(conditions, "("+strings.Join(sqls, " AND ")+")")
		args = append(args, queryArgs...)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}

func toSQLs(queries []Query) ([]string, []any, error) {
	sqls := make([]string, 0, len(queries))
	var args []any
	for _, query := range queries {
		sql, queryArgs, err := query.ToSQL()
		if err != nil {
			return nil, nil, err
		}
		sqls = append(sqls, sql)
		args = append(args, queryArgs...)
	}
	return sqls, args, nil
}
