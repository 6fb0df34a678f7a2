// Package query 描述数据行的筛选条件，并渲染为带占位符的 SQL where 子句
package query

import (
	"regexp"

	"github.com/pkg/errors"
)

// QueryType 查询类型
type QueryType string

const (
	QueryTypeBool   QueryType = "bool"
	QueryTypeTerm   QueryType = "term"
	QueryTypeTerms  QueryType = "terms"
	QueryTypeRange  QueryType = "range"
	QueryTypeExists QueryType = "exists"
	QueryTypePrefix QueryType = "prefix"
)

var ErrInvalidField = errors.New("invalid field name")

// 字段名直接拼接进 SQL，只允许标识符以及 table.column 形式
var fieldRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Query 查询节点接口
type Query interface {
	Type() QueryType
	ToSQL() (string, []any, error)
}

func checkField(field string) error {
	if !fieldRegex.MatchString(field) {
		return errors.Wrapf(ErrInvalidField, "%q", field)
	}
	return nil
}
