package path

import (
	"context"
	"reflect"
)

// Relator 由实体实现，按名称返回关联实体
type Relator interface {
	Relation(name string) any
}

// Attributer 由实体实现，按名称返回属性值
type Attributer interface {
	Attribute(name string) any
}

// RelatorAccessor 委托给实体自身实现的 Relator/Attributer，
// 也可以按实体类型注册访问函数，注册的函数优先
type RelatorAccessor struct {
	relations  map[reflect.Type]map[string]func(ctx context.Context, entity any) any
	attributes map[reflect.Type]map[string]func(ctx context.Context, entity any) any
}

func NewRelatorAccessor() *RelatorAccessor {
	return &RelatorAccessor{
		relations:  map[reflect.Type]map[string]func(ctx context.Context, entity any) any{},
		attributes: map[reflect.Type]map[string]func(ctx context.Context, entity any) any{},
	}
}

// HandleRelation 为类型 T 注册名为 name 的关联，应在定义 schema 时调用
func HandleRelation[T any](a *RelatorAccessor, name string, fn func(ctx context.Context, entity T) any) {
	register(a.relations, name, fn)
}

// HandleAttribute 为类型 T 注册名为 name 的属性，应在定义 schema 时调用
func HandleAttribute[T any](a *RelatorAccessor, name string, fn func(ctx context.Context, entity T) any) {
	register(a.attributes, name, fn)
}

func register[T any](m map[reflect.Type]map[string]func(ctx context.Context, entity any) any, name string, fn func(ctx context.Context, entity T) any) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if m[rt] == nil {
		m[rt] = map[string]func(ctx context.Context, entity any) any{}
	}
	m[rt][name] = func(ctx context.Context, entity any) any {
		return fn(ctx, entity.(T))
	}
}

func (a *RelatorAccessor) Relation(ctx context.Context, entity any, name string) any {
	if fn, ok := a.relations[reflect.TypeOf(entity)][name]; ok {
		return fn(ctx, entity)
	}
	if r, ok := entity.(Relator); ok {
		return r.Relation(name)
	}
	return nil
}

func (a *RelatorAccessor) Attribute(ctx context.Context, entity any, name string) any {
	if fn, ok := a.attributes[reflect.TypeOf(entity)][name]; ok {
		return fn(ctx, entity)
	}
	if r, ok := entity.(Attributer); ok {
		return r.Attribute(name)
	}
	return nil
}
