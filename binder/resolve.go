package binder

import (
	"context"
	"reflect"

	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/auth"
	"github.com/hatlonely/gqlmodel/path"
	"github.com/hatlonely/gqlmodel/rangex"
)

// resolution 绑定时确定的取值方式，创建后只读
type resolution struct {
	path      path.Path
	attribute string
	isRange   bool
	isEnum    bool
	typed     AttributeType
}

func (b *Binder) resolver(r resolution) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		return b.resolve(p.Context, p.Source, r)
	}
}

// resolve 沿路径找到实体，通过鉴权后取值
//
// 路径中断和鉴权失败都返回 nil，调用方无法区分两者。
// 只有区间值无法拆分时返回错误。
func (b *Binder) resolve(ctx context.Context, root any, r resolution) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	entity := path.Traverse(ctx, b.accessor, root, r.path)
	if entity == nil {
		return nil, nil
	}
	if !auth.CanRead(ctx, entity) {
		return nil, nil
	}

	if r.typed != nil {
		return nilIfNil(r.typed.Resolve(ctx, entity, r.attribute)), nil
	}

	value := b.accessor.Attribute(ctx, entity, r.attribute)
	if path.IsNil(value) {
		return nil, nil
	}

	switch {
	case r.isRange:
		bounds, err := rangex.Decompose(value)
		if err != nil || bounds == nil {
			return nil, err
		}
		return bounds, nil
	case r.isEnum:
		return enumValue(value), nil
	default:
		return value, nil
	}
}

// enumValue 将自定义的字符串类型转换为 string，graphql-go 按值精确匹配枚举
func enumValue(value any) any {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = enumValue(rv.Index(i).Interface())
		}
		return values
	}
	return rv.Interface()
}

func nilIfNil(value any) any {
	if path.IsNil(value) {
		return nil
	}
	return value
}
