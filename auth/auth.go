// Package auth 提供字段解析时使用的读权限检查
//
// 鉴权器随请求的 context 传递，context 中没有鉴权器时一律拒绝。
package auth

import (
	"context"
)

// Authorizer 判断当前请求能否读取实体
type Authorizer interface {
	CanRead(ctx context.Context, entity any) bool
}

// Func 函数形式的 Authorizer
type Func func(ctx context.Context, entity any) bool

func (f Func) CanRead(ctx context.Context, entity any) bool {
	return f(ctx, entity)
}

var (
	AllowAll Authorizer = Func(func(ctx context.Context, entity any) bool { return true })
	DenyAll  Authorizer = Func(func(ctx context.Context, entity any) bool { return false })
)

type authorizerKey struct{}

// WithAuthorizer 返回携带鉴权器的 context
func WithAuthorizer(ctx context.Context, authorizer Authorizer) context.Context {
	return context.WithValue(ctx, authorizerKey{}, authorizer)
}

func FromContext(ctx context.Context) (Authorizer, bool) {
	if ctx == nil {
		return nil, false
	}
	authorizer, ok := ctx.Value(authorizerKey{}).(Authorizer)
	return authorizer, ok && authorizer != nil
}

// CanRead 使用 context 中的鉴权器检查读权限
func CanRead(ctx context.Context, entity any) bool {
	authorizer, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return authorizer.CanRead(ctx, entity)
}
