package validator

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Instance 返回共享的 validator 实例，validator 内部会缓存结构体元信息
func Instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct 使用 validator 校验结构体
// nil、nil 指针以及非结构体的值直接视为校验通过
func ValidateStruct(object any) error {
	if object == nil {
		return nil
	}

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil
	}

	// 跳过 time.Time 等内置结构体
	rt := rv.Type()
	if rt.PkgPath() == "time" && rt.Name() == "Time" {
		return nil
	}

	return Instance().Struct(rv.Interface())
}

// RegisterValidation 在共享实例上注册自定义校验 tag
func RegisterValidation(tag string, fn func(value reflect.Value) bool) error {
	return Instance().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field())
	})
}

// ValidateVar 使用 validator 的 tag 语法校验单个值
func ValidateVar(value any, tag string) error {
	return Instance().Var(value, tag)
}
