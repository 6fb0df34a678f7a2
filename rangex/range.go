// Package rangex 定义区间值的访问接口以及 daterange/tsrange 两种存储类型
package rangex

import (
	"fmt"
	"reflect"
	"time"

	"github.com/pkg/errors"
)

var ErrNotRange = errors.New("value is not a range")

// Range 可以读取上下界的区间
type Range interface {
	First() any
	Last() any
}

// InclusiveRange 离散区间，可以给出包含在区间内的最后一个值
type InclusiveRange interface {
	Range
	LastIncluded() any
}

// Decompose 将区间拆成 [下界, 上界] 两个字符串
//
// 优先使用 LastIncluded，值不支持时退回 Last；nil 值和零值区间返回 nil。
// 两种访问方式都不支持时返回 ErrNotRange。
func Decompose(value any) ([]any, error) {
	if isNil(value) {
		return nil, nil
	}
	if z, ok := value.(interface{ IsZero() bool }); ok && z.IsZero() {
		return nil, nil
	}

	if r, ok := value.(InclusiveRange); ok {
		return []any{FormatBound(r.First()), FormatBound(r.LastIncluded())}, nil
	}
	if r, ok := value.(Range); ok {
		return []any{FormatBound(r.First()), FormatBound(r.Last())}, nil
	}
	return nil, errors.Wrapf(ErrNotRange, "%T", value)
}

// FormatBound 将区间端点渲染为字符串，零点的时间按日期输出
func FormatBound(bound any) any {
	if isNil(bound) {
		return nil
	}

	switch v := bound.(type) {
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	case *time.Time:
		return FormatBound(*v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(bound)
}

// isNil 与 path.IsNil 相同，rangex 不依赖 path，单独保留一份
func isNil(v any) bool {
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
