package binder

import (
	"context"

	"github.com/graphql-go/graphql"
)

// AttributeType 自行决定字段类型和取值方式的属性，用于不直接对应某一列的字段
type AttributeType interface {
	GraphQLType() graphql.Output
	Resolve(ctx context.Context, entity any, fieldName string) any
}

// TypedAttribute 由类型和取值函数组成的 AttributeType
type TypedAttribute struct {
	Type        graphql.Output
	ResolveFunc func(ctx context.Context, entity any, fieldName string) any
}

func (t *TypedAttribute) GraphQLType() graphql.Output {
	return t.Type
}

func (t *TypedAttribute) Resolve(ctx context.Context, entity any, fieldName string) any {
	if t.ResolveFunc == nil {
		return nil
	}
	return t.ResolveFunc(ctx, entity, fieldName)
}
