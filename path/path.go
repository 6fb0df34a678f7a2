// Package path 沿关联名序列从根实体走到目标实体
package path

import (
	"context"
	"reflect"
	"strings"
)

// Path 有序的关联名序列
type Path []string

// Parse 将 owner.account 形式的字符串拆成 Path，空字符串对应空路径
func Parse(s string) Path {
	if s == "" {
		return Path{}
	}
	return strings.Split(s, ".")
}

// Clone 返回副本，绑定字段时捕获的路径不受调用方后续修改影响
func (p Path) Clone() Path {
	return append(Path{}, p...)
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Accessor 按名称读取实体的关联和属性，读不到时返回 nil
type Accessor interface {
	Relation(ctx context.Context, entity any, name string) any
	Attribute(ctx context.Context, entity any, name string) any
}

// Traverse 从 root 出发依次访问 p 中的关联
//
// 任意一跳得到 nil（包括带类型的 nil 指针）都直接返回 nil，不做鉴权。
func Traverse(ctx context.Context, accessor Accessor, root any, p Path) any {
	entity := root
	for _, segment := range p {
		if IsNil(entity) {
			return nil
		}
		entity = accessor.Relation(ctx, entity, segment)
	}
	if IsNil(entity) {
		return nil
	}
	return entity
}

// IsNil 判断 v 是否为 nil 或带类型的 nil
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
