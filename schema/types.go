// Package schema 把模型列的元信息转换为 graphql-go 的类型描述
package schema

import (
	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/meta"
)

// MapPrimitive 将存储层的基础类型映射为 GraphQL 输出类型
//
// 区间类型以两个字符串端点的列表暴露，未知类型一律映射为 String。
func MapPrimitive(t meta.PrimitiveType) graphql.Output {
	switch t {
	case meta.TypeBoolean:
		return graphql.Boolean
	case meta.TypeInteger:
		return graphql.Int
	case meta.TypeFloat:
		return graphql.Float
	case meta.TypeDateRange, meta.TypeTsRange:
		return graphql.NewList(graphql.NewNonNull(graphql.String))
	default:
		return graphql.String
	}
}
