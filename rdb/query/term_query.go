package query

import (
	"fmt"
	"strings"
)

// TermQuery 精确匹配查询，Value 为 nil 时匹配 NULL
type TermQuery struct {
	Field string `cfg:"field" validate:"required"`
	Value any    `cfg:"value"`
}

func (q *TermQuery) Type() QueryType {
	return QueryTypeTerm
}

func (q *TermQuery) ToSQL() (string, []any, error) {
	if err := checkField(q.Field); err != nil {
		return "", nil, err
	}
	if q.Value == nil {
		return fmt.Sprintf("%s IS NULL", q.Field), nil, nil
	}
	return fmt.Sprintf("%s = ?", q.Field), []any{q.Value}, nil
}

// TermsQuery 多值匹配查询，Values 为空时不匹配任何行
type TermsQuery struct {
	Field  string `cfg:"field" validate:"required"`
	Values []any  `cfg:"values"`
}

func (q *TermsQuery) Type() QueryType {
	return QueryTypeTerms
}

func (q *TermsQuery) ToSQL() (string, []any, error) {
	if err := checkField(q.Field); err != nil {
		return "", nil, err
	}
	if len(q.Values) == 0 {
		return "1=0", nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(q.Values)), ", ")
	return fmt.Sprintf("%s IN (%s)", q.Field, placeholders), append([]any(nil), q.Values...), nil
}

// ExistsQuery 字段非空查询
type ExistsQuery struct {
	Field string `cfg:"field" validate:"required"`
}

func (q *ExistsQuery) Type() QueryType {
	return QueryTypeExists
}

func (q *ExistsQuery) ToSQL() (string, []any, error) {
	if err := checkField(q.Field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s IS NOT NULL", q.Field), nil, nil
}

// PrefixQuery 前缀查询，Value 中的 LIKE 通配符按字面量匹配
type PrefixQuery struct {
	Field string `cfg:"field" validate:"required"`
	Value string `cfg:"value"`
}

func (q *PrefixQuery) Type() QueryType {
	return QueryTypePrefix
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (q *PrefixQuery) ToSQL() (string, []any, error) {
	if err := checkField(q.Field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, q.Field), []any{likeEscaper.Replace(q.Value) + "%"}, nil
}
